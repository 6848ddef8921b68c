// Package session holds the bearer token slot and the claims decoded from it.
//
// The decoded role only drives which affordances a front end shows. It grants
// nothing: the backend re-checks the role on every privileged call.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"courtbook/internal/events"
	"courtbook/internal/model"
)

// Manager serialises access to the token slot and announces session changes.
type Manager struct {
	mu     sync.Mutex
	store  Store
	bus    *events.Bus
	logger zerolog.Logger
}

// NewManager creates a manager over store. bus may be nil.
func NewManager(store Store, bus *events.Bus, logger zerolog.Logger) *Manager {
	return &Manager{
		store:  store,
		bus:    bus,
		logger: logger.With().Str("component", "session").Logger(),
	}
}

// Login decodes token and, when it is well formed, persists it.
// A malformed token is not stored.
func (m *Manager) Login(ctx context.Context, token string) (*Claims, error) {
	claims, err := Decode(token)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	err = m.store.Save(ctx, token)
	m.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}

	m.logger.Info().Str("email", claims.Email()).Str("role", claims.Role.String()).Msg("logged in")
	m.publish(events.Event{Type: events.SessionLoggedIn, Subject: claims.Email(), Detail: string(claims.Role)})
	return claims, nil
}

// Token returns the stored bearer token or ErrNoToken.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.store.Load(ctx)
}

// Claims decodes the stored token. A token that fails to decode is cleared
// and SessionExpired is published, so front ends send the user to login.
func (m *Manager) Claims(ctx context.Context) (*Claims, error) {
	m.mu.Lock()
	token, err := m.store.Load(ctx)
	if err != nil {
		m.mu.Unlock()
		return nil, err
	}

	claims, err := Decode(token)
	if err == nil {
		m.mu.Unlock()
		return claims, nil
	}

	clearErr := m.store.Clear(ctx)
	m.mu.Unlock()

	m.logger.Warn().Err(err).Msg("stored token could not be decoded, clearing session")
	if clearErr != nil {
		m.logger.Error().Err(clearErr).Msg("failed to clear malformed token")
	}
	m.publish(events.Event{Type: events.SessionExpired, Detail: "malformed token"})
	return nil, err
}

// Role returns the role claim, or RoleNone when there is no usable token.
func (m *Manager) Role(ctx context.Context) model.Role {
	claims, err := m.Claims(ctx)
	if err != nil {
		return model.RoleNone
	}
	return claims.Role
}

// Authenticated reports whether a decodable token is stored.
func (m *Manager) Authenticated(ctx context.Context) bool {
	_, err := m.Claims(ctx)
	return err == nil
}

// HasRole reports whether the current role is one of roles.
func (m *Manager) HasRole(ctx context.Context, roles ...model.Role) bool {
	current := m.Role(ctx)
	if current == model.RoleNone {
		return false
	}
	for _, r := range roles {
		if r == current {
			return true
		}
	}
	return false
}

// Logout clears the slot.
func (m *Manager) Logout(ctx context.Context) error {
	email := m.email(ctx)

	m.mu.Lock()
	err := m.store.Clear(ctx)
	m.mu.Unlock()
	if err != nil {
		return fmt.Errorf("clear token: %w", err)
	}

	m.logger.Info().Str("email", email).Msg("logged out")
	m.publish(events.Event{Type: events.SessionLoggedOut, Subject: email})
	return nil
}

// Expire is a forced logout, used when the backend rejects the token.
func (m *Manager) Expire(ctx context.Context, reason string) error {
	email := m.email(ctx)

	m.mu.Lock()
	err := m.store.Clear(ctx)
	m.mu.Unlock()
	if err != nil {
		return fmt.Errorf("clear token: %w", err)
	}

	m.logger.Warn().Str("email", email).Str("reason", reason).Msg("session expired")
	m.publish(events.Event{Type: events.SessionExpired, Subject: email, Detail: reason})
	return nil
}

func (m *Manager) email(ctx context.Context) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	token, err := m.store.Load(ctx)
	if err != nil {
		return ""
	}
	claims, err := Decode(token)
	if err != nil {
		return ""
	}
	return claims.Email()
}

func (m *Manager) publish(e events.Event) {
	if err := m.bus.Publish(e); err != nil {
		m.logger.Error().Err(err).Str("event", string(e.Type)).Msg("event handler failed")
	}
}

// IsNoSession reports whether err means there is no usable session.
func IsNoSession(err error) bool {
	return errors.Is(err, ErrNoToken) || errors.Is(err, ErrMalformedToken)
}
