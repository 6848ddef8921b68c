// Package api is a typed client for the court reservation backend.
//
// Every call is a single request: no retries, no response caching. Calls that
// need a session read the bearer token from the session slot; a 401 or 403
// on such a call expires the session before the error is returned.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"courtbook/internal/metrics"
)

// DefaultBaseURL is the backend the original deployment ran on.
const DefaultBaseURL = "http://localhost:8080/api"

const maxBodyBytes = 1 << 20

// Session is the token slot the client authenticates with.
// *session.Manager satisfies it.
type Session interface {
	Token(ctx context.Context) (string, error)
	Expire(ctx context.Context, reason string) error
}

// Client calls the backend REST endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    Session
	limiter    *rate.Limiter
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit paces outgoing requests. perSecond <= 0 disables pacing.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) {
		if perSecond <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewClient constructs a client for baseURL (e.g. http://localhost:8080/api).
func NewClient(baseURL string, sess Session, logger zerolog.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		session:    sess,
		logger:     logger.With().Str("component", "api").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API root.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	method   string
	path     string // relative to baseURL, already escaped
	endpoint string // metrics label, path template
	query    url.Values
	body     any
	auth     bool
}

func (c *Client) get(ctx context.Context, endpoint, path string, query url.Values, out any) error {
	return c.do(ctx, request{method: http.MethodGet, endpoint: endpoint, path: path, query: query, auth: true}, out)
}

func (c *Client) send(ctx context.Context, method, endpoint, path string, body, out any) error {
	return c.do(ctx, request{method: method, endpoint: endpoint, path: path, body: body, auth: true}, out)
}

func (c *Client) do(ctx context.Context, r request, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}

	endpoint := c.baseURL + "/" + r.path
	if len(r.query) > 0 {
		endpoint += "?" + r.query.Encode()
	}

	var body io.Reader = http.NoBody
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", r.endpoint, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, endpoint, body)
	if err != nil {
		return err
	}
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)

	if r.auth {
		token, err := c.session.Token(ctx)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveRequest(r.endpoint, 0, time.Since(started))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		c.logger.Debug().Err(err).Str("method", r.method).Str("path", r.path).Str("request_id", requestID).Msg("request failed")
		return fmt.Errorf("%w: %v", ErrServer, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	elapsed := time.Since(started)
	metrics.ObserveRequest(r.endpoint, resp.StatusCode, elapsed)
	c.logger.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Str("request_id", requestID).
		Dur("duration", elapsed).
		Msg("api call")
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrServer, err)
	}

	if resp.StatusCode >= 300 {
		apiErr := parseError(resp.StatusCode, data)
		if r.auth && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
			c.expire(ctx, resp.StatusCode)
		}
		return apiErr
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", ErrServer, r.endpoint, err)
	}
	return nil
}

// expire is the centralized auth-failure handler: the backend rejected the
// token, so the session ends here and front ends are told to go to login.
func (c *Client) expire(ctx context.Context, status int) {
	reason := fmt.Sprintf("http %d", status)
	if err := c.session.Expire(context.WithoutCancel(ctx), reason); err != nil {
		c.logger.Error().Err(err).Msg("failed to expire session")
	}
}

// messageResponse is the {"message": ...} body several endpoints return.
type messageResponse struct {
	Message string `json:"message"`
}

func pathID(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", errors.New("empty id")
	}
	return url.PathEscape(id), nil
}
