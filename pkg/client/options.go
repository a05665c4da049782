package client

import (
	"net/http"
	"net/textproto"
	"time"
)

// Option configures a Client at construction.  Zero or nil arguments leave
// the default in place.
type Option func(*Client)

// WithHTTPClient supplies the transport; resty wraps it without copying, so
// test servers and custom TLS settings carry through.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithLogger(logger Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRetryMax caps retries of 429, 5xx and transport failures.  0 disables
// retrying.
func WithRetryMax(retryMax int) Option {
	return func(c *Client) {
		if retryMax >= 0 {
			c.retryMax = retryMax
		}
	}
}

// WithRetryWait sets the backoff bounds.  A max below min keeps the current
// max.
func WithRetryWait(min, max time.Duration) Option {
	return func(c *Client) {
		if min <= 0 {
			return
		}
		c.retryWaitMin = min
		if max >= min {
			c.retryWaitMax = max
		}
	}
}

func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithTimeout bounds each attempt.  Structure downloads can be slow, so
// the default is generous.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHeader adds a header to every request.  User-Agent and X-Request-ID
// are managed by the client and cannot be overridden here.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		key = textproto.CanonicalMIMEHeaderKey(key)
		if key == "" || key == "User-Agent" || key == textproto.CanonicalMIMEHeaderKey(headerRequestID) {
			return
		}
		if c.headers == nil {
			c.headers = make(map[string]string)
		}
		c.headers[key] = value
	}
}

//Personal.AI order the ending
