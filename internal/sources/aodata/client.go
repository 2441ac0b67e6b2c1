// Package aodata fetches the Albion Online item dump published by the
// ao-data project and normalizes it into catalog items.
package aodata

import (
	"context"

	"github.com/agentstation/lucro/internal/transport"
	"github.com/agentstation/lucro/pkg/constants"
	"github.com/agentstation/lucro/pkg/logging"
)

// SourceName tags fetch errors raised by this package.
const SourceName = "catalog"

// Client downloads the full item dump.
type Client struct {
	url       string
	transport *transport.Client
}

// Option configures a Client.
type Option func(*Client)

// WithURL overrides the catalog URL.
func WithURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.url = url
		}
	}
}

// WithTransport sets the HTTP transport.
func WithTransport(t *transport.Client) Option {
	return func(c *Client) {
		if t != nil {
			c.transport = t
		}
	}
}

// NewClient creates a catalog client for the default dump URL.
func NewClient(opts ...Option) *Client {
	c := &Client{
		url:       constants.DefaultCatalogURL,
		transport: transport.New(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the catalog URL.
func (c *Client) URL() string {
	return c.url
}

// FetchFullCatalog performs one GET of the item dump. Non-200 responses,
// transport failures and timeouts come back as *errors.FetchError. There
// is no retry.
func (c *Client) FetchFullCatalog(ctx context.Context) ([]RawItem, error) {
	logger := logging.FromContext(ctx)
	logger.Debug().Str("url", c.url).Msg("Fetching item catalog")

	var raw []RawItem
	if err := c.transport.GetJSON(ctx, SourceName, c.url, &raw); err != nil {
		return nil, err
	}

	logger.Debug().Int("records", len(raw)).Msg("Fetched item catalog")
	return raw, nil
}
