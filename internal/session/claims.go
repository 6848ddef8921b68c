package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"courtbook/internal/model"
)

var (
	// ErrNoToken is returned when the token slot is empty.
	ErrNoToken = errors.New("no session token")
	// ErrMalformedToken is returned when a token cannot be decoded into claims.
	ErrMalformedToken = errors.New("malformed session token")
)

// Claims are the parts of the bearer token the client reads.
// Subject carries the account email.
type Claims struct {
	Role model.Role `json:"role"`
	jwt.RegisteredClaims
}

// Email returns the subject claim.
func (c *Claims) Email() string {
	return c.Subject
}

// Expired reports whether exp lies at or before now. Tokens without exp never expire.
func (c *Claims) Expired(now time.Time) bool {
	if c.ExpiresAt == nil {
		return false
	}
	return !now.Before(c.ExpiresAt.Time)
}

// The client has no signing key; signatures are left to the backend.
var parser = jwt.NewParser()

// Decode reads the claims of a bearer token without verifying its signature.
// Any failure, including a missing or unknown role, wraps ErrMalformedToken.
func Decode(token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: empty token", ErrMalformedToken)
	}

	claims := &Claims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	if !claims.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrMalformedToken, string(claims.Role))
	}
	return claims, nil
}

// DecodeRole is Decode narrowed to the role claim.
func DecodeRole(token string) (model.Role, error) {
	claims, err := Decode(token)
	if err != nil {
		return model.RoleNone, err
	}
	return claims.Role, nil
}
