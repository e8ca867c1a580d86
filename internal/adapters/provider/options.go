package provider

import (
	"net/http"
	"strings"
	"time"

	"github.com/okian/pitchside/pkg/logger"
)

// DefaultBaseURL is the public StatsBomb open-data tree.
const DefaultBaseURL = "https://raw.githubusercontent.com/statsbomb/open-data/master/data"

const defaultTimeout = 15 * time.Second

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another mirror of the open-data layout.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// WithTimeout bounds every lookup.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.log = l
		}
	}
}
