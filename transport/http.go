package transport

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultHTTPTimeout bounds a single round trip.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultMaxBodyBytes caps the size of a response body.
	DefaultMaxBodyBytes = 32 << 20

	defaultUserAgent = "s1sdk-go"
)

// HTTP sends API calls as form POST requests.
type HTTP struct {
	client    *http.Client
	userAgent string
	maxBody   int64
}

// HTTPOption configures an HTTP sender.
type HTTPOption func(*HTTP)

// WithHTTPClient replaces the underlying client.
func WithHTTPClient(c *http.Client) HTTPOption {
	return func(h *HTTP) {
		if c != nil {
			h.client = c
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) HTTPOption {
	return func(h *HTTP) { h.userAgent = ua }
}

// WithMaxBodyBytes caps the accepted response size.
func WithMaxBodyBytes(n int64) HTTPOption {
	return func(h *HTTP) {
		if n > 0 {
			h.maxBody = n
		}
	}
}

// NewHTTP creates an HTTP sender.
func NewHTTP(opts ...HTTPOption) *HTTP {
	h := &HTTP{
		client:    &http.Client{Timeout: DefaultHTTPTimeout},
		userAgent: defaultUserAgent,
		maxBody:   DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Send posts args to server+path with params in the query string.
//
// The platform reports API errors inside the response envelope, so bodies of
// non-2xx responses are returned as-is. Only an empty error response is
// treated as a transport failure.
func (h *HTTP) Send(ctx context.Context, server, path string, params, args Params) ([]byte, error) {
	if server == "" {
		return nil, ErrInvalidURL
	}
	target := server + path
	if params.Len() > 0 {
		target += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, strings.NewReader(args.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transport: send: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBody))
	if err != nil {
		return nil, fmt.Errorf("transport: read body: %w", err)
	}
	if resp.StatusCode >= 400 && len(body) == 0 {
		return nil, fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode)
	}
	return body, nil
}

var _ Sender = (*HTTP)(nil)
