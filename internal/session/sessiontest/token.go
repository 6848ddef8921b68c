// Package sessiontest mints bearer tokens for tests.
package sessiontest

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"courtbook/internal/model"
)

const secret = "test-secret"

// Token returns an HS256 token for email and role expiring after ttl.
func Token(tb testing.TB, email string, role model.Role, ttl time.Duration) string {
	tb.Helper()
	claims := jwt.MapClaims{
		"sub":  email,
		"role": string(role),
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		tb.Fatalf("sign token: %v", err)
	}
	return signed
}
