package api

import (
	"context"
	"net/http"

	"courtbook/internal/model"
)

// Me returns the caller's profile.
func (c *Client) Me(ctx context.Context) (*model.Profile, error) {
	var p model.Profile
	if err := c.get(ctx, "user/me", "user/me", nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateProfile sends a partial update; only the keys present are changed.
func (c *Client) UpdateProfile(ctx context.Context, changes map[string]string) error {
	return c.send(ctx, http.MethodPatch, "user/profile", "user/profile", changes, nil)
}
