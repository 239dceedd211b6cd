package client

import (
	"net/http"
	"time"
)

// Option configures a Client. Invalid values are ignored and the default stays.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

func WithLogger(l Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithToken sets the bearer token sent with every request. An empty token
// sends none.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithRetryMax caps retries after the first attempt. Zero disables retrying.
func WithRetryMax(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retryMax = n
		}
	}
}

// WithRetryWait bounds the exponential backoff. ceiling is applied only when
// it is not below floor.
func WithRetryWait(floor, ceiling time.Duration) Option {
	return func(c *Client) {
		if floor <= 0 {
			return
		}
		c.retryWaitMin = floor
		if ceiling >= floor {
			c.retryWaitMax = ceiling
		}
	}
}

func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

//Personal.AI order the ending
