package utils_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/imadgeboyega/xoxo-backend/internal/common/utils"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()

	cases := map[error]int{
		utils.NewError(utils.ErrNotFound, "match not found"):           http.StatusNotFound,
		utils.NewError(utils.ErrForbidden, "not part of this match"):   http.StatusForbidden,
		utils.NewError(utils.ErrConflict, "already swiped"):            http.StatusConflict,
		utils.NewError(utils.ErrValidation, "age is required"):         http.StatusBadRequest,
		utils.NewError(utils.ErrPrecondition, "location unset"):        http.StatusBadRequest,
		utils.NewError(utils.ErrUnauthenticated, "bad token"):          http.StatusUnauthorized,
		fmt.Errorf("repo: %w", utils.NewError(utils.ErrNotFound, "x")): http.StatusNotFound,
		fmt.Errorf("boom"): http.StatusInternalServerError,
	}

	for err, want := range cases {
		require.Equal(t, want, utils.StatusFor(err), err.Error())
	}
}

func TestRespondWithServiceError(t *testing.T) {
	t.Parallel()

	t.Run("it should surface the message of a known kind", func(t *testing.T) {
		rec := httptest.NewRecorder()
		utils.RespondWithServiceError(rec, utils.NewError(utils.ErrConflict, "Already swiped on this user"), "Failed")

		require.Equal(t, http.StatusConflict, rec.Code)
		require.JSONEq(t, `{"error":"Already swiped on this user"}`, rec.Body.String())
	})

	t.Run("it should hide unknown errors behind the fallback", func(t *testing.T) {
		rec := httptest.NewRecorder()
		utils.RespondWithServiceError(rec, fmt.Errorf("pq: connection refused"), "Failed to record swipe")

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.JSONEq(t, `{"error":"Failed to record swipe"}`, rec.Body.String())
	})
}

type locationPayload struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	t.Run("it should accept the equator and the meridian", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"latitude":0,"longitude":0}`))

		var p locationPayload
		require.True(t, utils.DecodeJSON(rec, req, &p))
		require.Equal(t, 0.0, *p.Latitude)
	})

	t.Run("it should reject out of range coordinates using json names", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"latitude":91,"longitude":-181}`))

		var p locationPayload
		require.False(t, utils.DecodeJSON(rec, req, &p))
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "latitude must be between -90 and 90")
		require.Contains(t, rec.Body.String(), "longitude must be between -180 and 180")
	})

	t.Run("it should reject malformed bodies", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))

		var p locationPayload
		require.False(t, utils.DecodeJSON(rec, req, &p))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestJWT(t *testing.T) {
	t.Parallel()

	now := time.Now()
	claims := &utils.JWTClaims{
		UserID:    "0b3c6c2e-5f7e-4b57-a0d6-0d4f1f3f2a11",
		Email:     "a@example.com",
		Type:      utils.TokenTypeAccess,
		ExpiresAt: now.Add(time.Hour).Unix(),
		IssuedAt:  now.Unix(),
		Issuer:    "xoxo-backend",
	}

	t.Run("it should validate a token it signed", func(t *testing.T) {
		token, err := utils.GenerateJWT(claims, "secret")
		require.NoError(t, err)

		got, err := utils.ValidateJWT(token, "secret")
		require.NoError(t, err)
		require.Equal(t, claims.UserID, got.UserID)
		require.Equal(t, utils.TokenTypeAccess, got.Type)
	})

	t.Run("it should reject a token signed with another secret", func(t *testing.T) {
		token, err := utils.GenerateJWT(claims, "secret")
		require.NoError(t, err)

		_, err = utils.ValidateJWT(token, "other")
		require.Error(t, err)
	})

	t.Run("it should reject an expired token", func(t *testing.T) {
		expired := *claims
		expired.ExpiresAt = now.Add(-time.Minute).Unix()
		token, err := utils.GenerateJWT(&expired, "secret")
		require.NoError(t, err)

		_, err = utils.ValidateJWT(token, "secret")
		require.Error(t, err)
	})
}
