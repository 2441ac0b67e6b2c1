// Package transport is the HTTP client shared by the catalog and price sources.
package transport

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/agentstation/lucro/pkg/constants"
	"github.com/agentstation/lucro/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client performs JSON GET requests against the public Albion data endpoints.
type Client struct {
	http      *http.Client
	userAgent string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			hc := *c.http
			hc.Timeout = d
			c.http = &hc
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// New creates a transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: DefaultHTTPTimeout},
		userAgent: constants.UserAgent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration {
	return c.http.Timeout
}

// Do performs an HTTP request with the common headers applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	return c.http.Do(req)
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapResource("create", "request", "GET "+url, err)
	}
	return c.Do(req)
}

// GetJSON fetches url and decodes the JSON body into target. Every failure
// is returned as an *errors.FetchError tagged with source.
func (c *Client) GetJSON(ctx context.Context, source, url string, target any) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return errors.WrapFetch(source, url, IsTimeout(err), err)
	}
	return DecodeResponse(resp, source, target)
}

// IsTimeout reports whether err came from a deadline or a network timeout.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
