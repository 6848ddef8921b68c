package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"courtbook/internal/model"
)

// Fields of the signup form, in the order their errors are reported.
var signUpFields = []string{"email", "password", "firstName", "lastName"}

// SignUp registers an account and returns the confirmation message.
// Field rejections come back as *ValidationError; everything else wraps ErrServer.
func (c *Client) SignUp(ctx context.Context, in model.SignUpInput) (string, error) {
	var resp messageResponse
	err := c.do(ctx, request{method: http.MethodPost, endpoint: "auth/signup", path: "auth/signup", body: in}, &resp)
	if err != nil {
		return "", classifySignUp(err)
	}
	return resp.Message, nil
}

func classifySignUp(err error) error {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err
	}
	for _, name := range signUpFields {
		if msg, ok := apiErr.Fields[name]; ok {
			return &ValidationError{Field: name, Message: msg}
		}
	}
	if apiErr.Status == http.StatusConflict {
		return &ValidationError{Field: "email", Message: apiErr.Message}
	}
	return reclassify(err, ErrServer)
}

// Login exchanges credentials for a bearer token.
// It fails with ErrInvalidCredentials, ErrUnverified or ErrServer.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp struct {
		Token string `json:"token"`
	}
	in := model.Credentials{Email: email, Password: password}
	err := c.do(ctx, request{method: http.MethodPost, endpoint: "auth/login", path: "auth/login", body: in}, &resp)
	if err != nil {
		return "", classifyLogin(err)
	}
	if resp.Token == "" {
		return "", fmt.Errorf("%w: login response has no token", ErrServer)
	}
	return resp.Token, nil
}

func classifyLogin(err error) error {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		return err
	}
	switch {
	case apiErr.Status >= 500:
		return reclassify(err, ErrServer)
	case apiErr.Status == http.StatusForbidden,
		strings.Contains(strings.ToLower(apiErr.Message), "verif"):
		return reclassify(err, ErrUnverified)
	default:
		return reclassify(err, ErrInvalidCredentials)
	}
}

// VerifyEmail confirms an account with the token from the verification mail.
func (c *Client) VerifyEmail(ctx context.Context, token string) (string, error) {
	var resp messageResponse
	q := url.Values{"token": {token}}
	err := c.do(ctx, request{method: http.MethodGet, endpoint: "auth/verify", path: "auth/verify", query: q}, &resp)
	if err != nil {
		var apiErr *Error
		if errors.As(err, &apiErr) && apiErr.Status < 500 {
			return "", reclassify(err, ErrInvalidOrExpiredToken)
		}
		return "", err
	}
	return resp.Message, nil
}

// ListUsers returns one page of accounts. page is 1-based; the wire is 0-based.
func (c *Client) ListUsers(ctx context.Context, page, size int) (*model.UserPage, error) {
	if page < 1 {
		page = 1
	}
	q := url.Values{
		"page": {strconv.Itoa(page - 1)},
		"size": {strconv.Itoa(size)},
	}
	var resp model.UserPage
	if err := c.get(ctx, "auth/users", "auth/users", q, &resp); err != nil {
		return nil, err
	}
	resp.Page++
	return &resp, nil
}

// ChangeRole sets the role of a user.
func (c *Client) ChangeRole(ctx context.Context, userID string, role model.Role) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrValidation, string(role))
	}
	var resp messageResponse
	body := model.RoleChange{UserID: userID, NewRole: role}
	if err := c.send(ctx, http.MethodPost, "auth/role", "auth/role", body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
