package dsc

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// AuthMode selects how the credential is presented to the API.
type AuthMode int

const (
	// AuthKey sends the token verbatim in the Authorization header,
	// the form developer app keys use.
	AuthKey AuthMode = iota
	// AuthOAuth sends the token as an OAuth bearer credential.
	AuthOAuth
	// AuthBearer sends a pre-issued bearer token.
	AuthBearer
)

func (m AuthMode) String() string {
	switch m {
	case AuthKey:
		return "key"
	case AuthOAuth:
		return "oauth"
	case AuthBearer:
		return "bearer"
	default:
		return "unknown"
	}
}

// ParseAuthMode maps the mode names used in configuration. The empty
// string resolves to AuthKey.
func ParseAuthMode(s string) (AuthMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "key":
		return AuthKey, nil
	case "oauth":
		return AuthOAuth, nil
	case "bearer":
		return AuthBearer, nil
	default:
		return AuthKey, fmt.Errorf("unknown auth mode %q", s)
	}
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithAuthMode selects how the token is sent. The default is AuthKey.
func WithAuthMode(mode AuthMode) Option {
	return func(c *Client) {
		c.authMode = mode
	}
}

// WithTimeout sets the timeout on the client's underlying HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithHTTPClient replaces the default HTTP client entirely.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

// WithBaseURL points the client at a different API root, typically a
// test stub.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}
