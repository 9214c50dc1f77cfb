// Package remote is the client for the food-ordering backend REST API.
//
// Every endpoint answers JSON shaped {success, ...payload, error?}. Transport
// failures surface as *TransportError and application failures as *APIError;
// callers that only care whether the call worked can treat both alike.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"droneFoodOrdering/internal/auth"
)

const HeaderRequestID = "X-Request-Id"

// TokenFunc returns the bearer token for the current caller, or "" when
// there is none.
type TokenFunc func(ctx context.Context) (string, error)

type Client struct {
	baseURL string
	http    *http.Client
	token   TokenFunc
	logger  *slog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default instrumented client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

func WithTokenSource(fn TokenFunc) Option {
	return func(c *Client) { c.token = fn }
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: scheme and host are required", baseURL)
	}
	c := &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   10 * time.Second,
		},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// envelope is the part of every response the client inspects itself.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// call describes one request.
type call struct {
	op     string
	method string
	path   string
	in     any
	out    any
	// lenient skips the success flag check, for endpoints that answer
	// with a bare payload.
	lenient bool
}

func (c *Client) do(ctx context.Context, cl call) error {
	var body io.Reader
	if cl.in != nil {
		buf, err := json.Marshal(cl.in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", cl.op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, c.baseURL+cl.path, body)
	if err != nil {
		return fmt.Errorf("%s: %w", cl.op, err)
	}
	if cl.in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	reqID := uuid.NewString()
	req.Header.Set(HeaderRequestID, reqID)
	if c.token != nil {
		tok, err := c.token(ctx)
		if err != nil {
			return fmt.Errorf("%s: resolve token: %w", cl.op, err)
		}
		if tok != "" {
			req.Header.Set("Authorization", auth.BearerHeader(tok))
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("backend call failed", "op", cl.op, "request_id", reqID, "error", err)
		return &TransportError{Op: cl.op, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: cl.op, Err: err}
	}
	c.logger.Debug("backend call", "op", cl.op, "method", cl.method, "path", cl.path,
		"status", resp.StatusCode, "request_id", reqID, "elapsed", time.Since(start))

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= 300 {
			return &APIError{Op: cl.op, StatusCode: resp.StatusCode}
		}
		return &TransportError{Op: cl.op, Err: fmt.Errorf("decode response: %w", err)}
	}
	if resp.StatusCode >= 300 {
		return &APIError{Op: cl.op, StatusCode: resp.StatusCode, Message: env.message()}
	}
	if !cl.lenient && (env.Success == nil || !*env.Success) {
		return &APIError{Op: cl.op, StatusCode: resp.StatusCode, Message: env.message()}
	}
	if cl.out != nil {
		if err := json.Unmarshal(raw, cl.out); err != nil {
			return &TransportError{Op: cl.op, Err: fmt.Errorf("decode payload: %w", err)}
		}
	}
	return nil
}

func (e envelope) message() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

func segment(s string) string { return url.PathEscape(s) }
