// internal/common/utils/response.go
// JSON response helpers shared by all handlers

package utils

import (
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"
)

// RespondWithError sends {"error": message} with the given status code
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"error": message})
}

// RespondWithMessage sends {"message": message} with the given status code
func RespondWithMessage(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]string{"message": message})
}

// RespondWithJSON sends payload as JSON with the given status code
func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshaling response: %v", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":"Error marshaling JSON"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// DecodeJSON decodes the request body into dst and validates it.
// It writes the 400 response itself and reports false on failure.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return false
	}
	if err := ValidateStruct(dst); err != nil {
		RespondWithError(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// QueryInt reads a positive integer query parameter, returning def when absent.
// ok is false when the value is present but not a positive integer.
func QueryInt(r *http.Request, key string, def int) (value int, ok bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// QueryFloat reads a positive float query parameter, returning def when absent
func QueryFloat(r *http.Request, key string, def float64) (value float64, ok bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || !(f > 0) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
