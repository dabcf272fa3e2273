package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultAPIBase = "http://localhost:8080/api"

// TokenSource supplies the bearer token for outgoing requests and is told
// when the server rejects it.
type TokenSource interface {
	// Token returns the current token, or "" when there is none.
	Token() string
	// Invalidate clears the session. It must be safe to call repeatedly.
	Invalidate() error
}

// Client talks to the library backend.
type Client struct {
	apiBase string
	http    *http.Client
	tokens  TokenSource
	log     *slog.Logger
}

// Option customises a Client.
type Option func(*Client)

// WithTimeout sets the overall per-request timeout of the HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client for apiBase. tokens may be nil for anonymous use
// (login, dev tooling).
func New(apiBase string, tokens TokenSource, opts ...Option) *Client {
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	c := &Client{
		apiBase: strings.TrimRight(apiBase, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API base the client was built with.
func (c *Client) BaseURL() string { return c.apiBase }

// HasToken reports whether a usable token is available.
func (c *Client) HasToken() bool {
	return c.tokens != nil && c.tokens.Token() != ""
}

// Post sends body to path and decodes the envelope's data into out.
// out may be nil when the caller only cares about success.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, out)
}

// Get fetches path and decodes the envelope's data into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, out)
}

// Delete removes the resource at path.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.doJSON(ctx, http.MethodDelete, path, nil, nil)
}

// Call sends a request and returns the decoded envelope, for callers that
// need the server's message alongside the data.
func (c *Client) Call(ctx context.Context, method, path string, body any) (*Envelope, error) {
	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request: %w", err)
		}
		bodyReader = bytes.NewReader(b)
	} else if method == http.MethodPost {
		bodyReader = strings.NewReader("{}")
	}

	req, err := http.NewRequestWithContext(ctx, method, c.url(path), bodyReader)
	if err != nil {
		return nil, err
	}

	reqID := uuid.NewString()
	start := time.Now()
	resp, err := c.do(req, reqID)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		c.log.Debug("request failed", "method", method, "path", path, "request_id", reqID, "err", err)
		return nil, &Error{Message: "network error: " + unwrapURLError(err).Error(), Kind: ErrNetwork}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &Error{Status: resp.StatusCode, Message: "reading response: " + err.Error(), Kind: ErrNetwork}
	}

	c.log.Debug("api call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"request_id", reqID,
		"duration", time.Since(start),
	)

	if err := c.checkStatus(resp.StatusCode, data); err != nil {
		return nil, err
	}

	env := &Envelope{}
	if len(bytes.TrimSpace(data)) == 0 {
		return env, nil
	}
	if err := json.Unmarshal(data, env); err != nil {
		return nil, &Error{Status: resp.StatusCode, Message: "could not decode response body", Kind: ErrMalformed}
	}
	if !env.OK() {
		// A rejection inside a 2xx reply only carries a status when the
		// envelope names an error status.
		status := env.Status
		if status < 300 {
			status = 0
		}
		return nil, &Error{Status: status, Message: errorMessage(data, status), Kind: ErrValidation}
	}
	return env, nil
}

// do executes the request with the standard headers.
func (c *Client) do(req *http.Request, reqID string) (*http.Response, error) {
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if req.Header.Get("Content-Type") == "" && req.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.http.Do(req)
}

// doJSON sends a request and decodes the envelope's data into out.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	env, err := c.Call(ctx, method, path, body)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if !env.HasData() {
		msg := env.Message
		if msg == "" {
			msg = "response has no data"
		}
		return &Error{Status: env.Status, Message: msg, Kind: ErrMalformed}
	}
	if err := env.Decode(out); err != nil {
		return &Error{Status: env.Status, Message: "could not decode response data", Kind: ErrMalformed}
	}
	return nil
}

// url joins path onto the API base.
func (c *Client) url(path string) string {
	return c.apiBase + "/" + strings.TrimLeft(path, "/")
}

// checkStatus returns a typed error for non-2xx responses. A 401 invalidates
// the session before returning, whichever call triggered it.
func (c *Client) checkStatus(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}
	if status == http.StatusUnauthorized && c.tokens != nil {
		if err := c.tokens.Invalidate(); err != nil {
			c.log.Warn("could not clear session", "err", err)
		}
	}
	return &Error{Status: status, Message: errorMessage(body, status), Kind: kindForStatus(status)}
}

// unwrapURLError drops the "Post \"http://...\":" prefix net/http adds.
func unwrapURLError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		return urlErr.Err
	}
	return err
}

// Path builds a request path from segments, e.g. Path("admin", "buku", id).
// Each segment is escaped, so an id never adds or climbs a path level.
func Path(parts ...string) string {
	esc := make([]string, len(parts))
	for i, p := range parts {
		esc[i] = url.PathEscape(p)
	}
	return "/" + strings.Join(esc, "/")
}
