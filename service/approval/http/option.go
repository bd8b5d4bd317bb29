package http

import (
	"log/slog"
	nethttp "net/http"
	"time"
)

// Option customises the client.
type Option func(c *Client)

// WithTimeout bounds every call to the core.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) { c.timeout = timeout }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *nethttp.Client) Option {
	return func(c *Client) { c.httpClient = client }
}

// WithTokenSource enables bearer authentication.
func WithTokenSource(source *TokenSource) Option {
	return func(c *Client) { c.tokens = source }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}
