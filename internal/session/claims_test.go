package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courtbook/internal/model"
	"courtbook/internal/session"
	"courtbook/internal/session/sessiontest"
)

func TestDecode(t *testing.T) {
	token := sessiontest.Token(t, "ada@example.com", model.RoleAdmin, time.Hour)

	claims, err := session.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", claims.Email())
	assert.Equal(t, model.RoleAdmin, claims.Role)
	assert.False(t, claims.Expired(time.Now()))
	assert.True(t, claims.Expired(time.Now().Add(2*time.Hour)))
}

func TestDecodeIgnoresExpiry(t *testing.T) {
	token := sessiontest.Token(t, "old@example.com", model.RoleUser, -time.Hour)

	role, err := session.DecodeRole(token)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, role)
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"two segments", "abc.def"},
		{"bad base64 payload", "eyJhbGciOiJIUzI1NiJ9.%%%.sig"},
		{"unknown role", sessiontest.Token(t, "x@example.com", model.Role("OWNER"), time.Hour)},
		{"missing role", sessiontest.Token(t, "x@example.com", model.RoleNone, time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := session.DecodeRole(tt.token)
			assert.ErrorIs(t, err, session.ErrMalformedToken)
			assert.Equal(t, model.RoleNone, role)
		})
	}
}
