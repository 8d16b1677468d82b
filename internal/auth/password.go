package auth

import (
	"crypto/sha256"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt only looks at the first 72 bytes, so longer passwords are
// reduced with SHA-256 first.
const bcryptMaxBytes = 72

func passwordBytes(password string) []byte {
	b := []byte(password)
	if len(b) > bcryptMaxBytes {
		sum := sha256.Sum256(b)
		return sum[:]
	}
	return b
}

// HashPassword returns the bcrypt hash of password
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword(passwordBytes(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword reports whether password matches hash
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), passwordBytes(password)) == nil
}
