package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUnverified            = errors.New("email not verified")
	ErrServer                = errors.New("server error")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired verification token")
	ErrValidation            = errors.New("validation failed")
	ErrBadRequest            = errors.New("bad request")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrNotFound              = errors.New("not found")
	ErrConflict              = errors.New("conflict")
)

// Error is a non-2xx response. Err is the sentinel it classifies as.
type Error struct {
	Status  int
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d: %v", e.Status, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError is a field-level rejection of a form.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Message returns what the user should see for err: the backend's message
// when there is one, otherwise fallback.
func Message(err error, fallback string) string {
	var ve *ValidationError
	if errors.As(err, &ve) && ve.Message != "" {
		return ve.Message
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}

// IsAuthFailure reports whether err is a 401/403 from an authenticated call.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}

func sentinelForStatus(status int) error {
	switch {
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusConflict:
		return ErrConflict
	case status >= 500:
		return ErrServer
	default:
		return ErrBadRequest
	}
}

// parseError builds an Error from a response body. The backend answers
// with {"message": ...}, {"error": ...}, or field maps of several shapes.
func parseError(status int, body []byte) *Error {
	e := &Error{Status: status, Err: sentinelForStatus(status)}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		if text := strings.TrimSpace(string(body)); text != "" && len(text) < 200 && !strings.HasPrefix(text, "<") {
			e.Message = text
		}
		return e
	}

	e.Message = stringField(raw, "message")
	if e.Message == "" {
		e.Message = stringField(raw, "error")
	}

	fields := make(map[string]string)
	if f := stringField(raw, "field"); f != "" {
		fields[f] = e.Message
	}
	if errs, ok := raw["errors"]; ok {
		var asMap map[string]string
		var asList []struct {
			Field          string `json:"field"`
			Message        string `json:"message"`
			DefaultMessage string `json:"defaultMessage"`
		}
		switch {
		case json.Unmarshal(errs, &asMap) == nil:
			for k, v := range asMap {
				fields[k] = v
			}
		case json.Unmarshal(errs, &asList) == nil:
			for _, item := range asList {
				msg := item.Message
				if msg == "" {
					msg = item.DefaultMessage
				}
				if item.Field != "" {
					fields[item.Field] = msg
				}
			}
		}
	}
	// Bare {"email": "must be a well-formed email address"} maps.
	for _, name := range signUpFields {
		if v := stringField(raw, name); v != "" {
			if _, seen := fields[name]; !seen {
				fields[name] = v
			}
		}
	}
	if len(fields) > 0 {
		e.Fields = fields
		if e.Message == "" {
			for _, name := range signUpFields {
				if v, ok := fields[name]; ok {
					e.Message = v
					break
				}
			}
		}
	}
	return e
}

func stringField(raw map[string]json.RawMessage, key string) string {
	v, ok := raw[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

// reclassify keeps status and message but swaps the sentinel.
func reclassify(err error, sentinel error) error {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		cp := *apiErr
		cp.Err = sentinel
		return &cp
	}
	return fmt.Errorf("%w: %v", sentinel, err)
}
