// Package patentapi talks to the RapidAPI global patent search service.
//
// Every call goes through a circuit breaker and a bounded retry loop. The
// response body is handed to the domain parser, so classification of
// non-2xx statuses and malformed payloads lives in one place.
package patentapi

import (
	"context"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/turtacn/patent-litigation-graph/internal/domain/patent"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/patent-litigation-graph/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/patent-litigation-graph/pkg/errors"
)

const (
	DefaultBaseURL = "https://global-patent1.p.rapidapi.com"
	searchPath     = "/s"
	maxBodyBytes   = 8 << 20

	opSearch = "search"
	opDetail = "detail"
)

// Config is the patent_api configuration section. APIKey has no default and
// must come from the environment or the config file.
type Config struct {
	BaseURL           string        `mapstructure:"base_url" yaml:"base_url"`
	Host              string        `mapstructure:"host" yaml:"host"`
	APIKey            string        `mapstructure:"api_key" yaml:"api_key"`
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxRetries        int           `mapstructure:"max_retries" yaml:"max_retries"`
	RetryWaitMin      time.Duration `mapstructure:"retry_wait_min" yaml:"retry_wait_min"`
	RetryWaitMax      time.Duration `mapstructure:"retry_wait_max" yaml:"retry_wait_max"`
	EnrichConcurrency int           `mapstructure:"enrich_concurrency" yaml:"enrich_concurrency"`
	Breaker           BreakerConfig `mapstructure:"breaker" yaml:"breaker"`
}

// BreakerConfig tunes the circuit breaker around upstream calls.
type BreakerConfig struct {
	MaxRequests      uint32        `mapstructure:"max_requests" yaml:"max_requests"`
	Interval         time.Duration `mapstructure:"interval" yaml:"interval"`
	Timeout          time.Duration `mapstructure:"timeout" yaml:"timeout"`
	FailureThreshold float64       `mapstructure:"failure_threshold" yaml:"failure_threshold"`
	MinRequests      uint32        `mapstructure:"min_requests" yaml:"min_requests"`
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimSuffix(c.BaseURL, "/")
	if c.Host == "" {
		if u, err := url.Parse(c.BaseURL); err == nil {
			c.Host = u.Host
		}
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryWaitMin <= 0 {
		c.RetryWaitMin = 200 * time.Millisecond
	}
	if c.RetryWaitMax <= 0 {
		c.RetryWaitMax = 2 * time.Second
	}
	if c.Breaker.MaxRequests == 0 {
		c.Breaker.MaxRequests = 1
	}
	if c.Breaker.Interval <= 0 {
		c.Breaker.Interval = 30 * time.Second
	}
	if c.Breaker.Timeout <= 0 {
		c.Breaker.Timeout = 30 * time.Second
	}
	if c.Breaker.FailureThreshold <= 0 {
		c.Breaker.FailureThreshold = 0.6
	}
	if c.Breaker.MinRequests == 0 {
		c.Breaker.MinRequests = 5
	}
}

// Option customizes a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithMetrics(m *prometheus.AppMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// Client is safe for concurrent use.
type Client struct {
	cfg     Config
	http    *http.Client
	breaker *gobreaker.CircuitBreaker
	metrics *prometheus.AppMetrics
	logger  logging.Logger
}

// NewClient validates cfg and builds a client.
func NewClient(cfg Config, logger logging.Logger, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.Validation("patent_api.api_key", "patent api key is required")
	}
	cfg.applyDefaults()
	if u, err := url.Parse(cfg.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, errors.Validation("patent_api.base_url", "base url must be an http(s) url")
	}

	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger.Named("patentapi"),
	}
	for _, opt := range opts {
		opt(c)
	}

	bc := cfg.Breaker
	c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "patent_api",
		MaxRequests: bc.MaxRequests,
		Interval:    bc.Interval,
		Timeout:     bc.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < bc.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= bc.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			c.logger.Warn("Circuit breaker state changed",
				logging.String("name", name),
				logging.String("from", from.String()),
				logging.String("to", to.String()))
			prometheus.RecordBreakerState(c.metrics, name, int(to))
		},
	})
	return c, nil
}

// Config returns the effective configuration.
func (c *Client) Config() Config { return c.cfg }

// Search runs a full-text query. On failure the returned slice is empty, not
// nil, and err classifies the failure.
func (c *Client) Search(ctx context.Context, query string) ([]*patent.PatentRecord, error) {
	status, body, err := c.get(ctx, opSearch, query)
	if err != nil {
		return []*patent.PatentRecord{}, err
	}
	return patent.ParseSearchResponse(status, body)
}

// Detail looks one patent up by its external id.
func (c *Client) Detail(ctx context.Context, externalID string) (*patent.Detail, error) {
	if strings.TrimSpace(externalID) == "" {
		return nil, errors.InvalidParam("external id is required")
	}
	status, body, err := c.get(ctx, opDetail, externalID)
	if err != nil {
		return nil, err
	}
	return patent.ParseDetailResponse(externalID, status, body)
}

type response struct {
	status int
	body   []byte
}

// retryable marks outcomes the breaker counts as failures.
type retryable struct {
	status     int
	body       []byte
	retryAfter time.Duration
	err        error
}

func (r *retryable) Error() string {
	if r.err != nil {
		return r.err.Error()
	}
	return "upstream status " + strconv.Itoa(r.status)
}

// get returns the final status and body. Transport failures and exhausted
// 5xx/429 retries come back as an upstream-unavailable error.
func (c *Client) get(ctx context.Context, op, q string) (int, []byte, error) {
	start := time.Now()
	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.doWithRetry(ctx, q)
	})
	prometheus.RecordUpstreamCall(c.metrics, op, time.Since(start), err)

	if err == nil {
		resp := out.(*response)
		return resp.status, resp.body, nil
	}

	switch e := err.(type) {
	case *retryable:
		if e.err == nil {
			// Let the parser classify the final status.
			return e.status, e.body, nil
		}
		c.logger.Warn("Patent API request failed", logging.String("op", op), logging.Err(e.err))
		return 0, nil, errors.Wrap(e.err, errors.ErrCodeDataSourceUnavailable, "patent api request failed")
	}
	if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
		return 0, nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "patent api circuit open")
	}
	return 0, nil, errors.Wrap(err, errors.ErrCodeDataSourceUnavailable, "patent api request failed")
}

func (c *Client) doWithRetry(ctx context.Context, q string) (*response, error) {
	params := url.Values{}
	params.Set("ds", "all")
	params.Set("q", q)
	fullURL := c.cfg.BaseURL + searchPath + "?" + params.Encode()

	var last *retryable
	for attempt := 0; attempt <= c.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			wait := c.backoff(attempt)
			if last != nil && last.retryAfter > 0 {
				wait = last.retryAfter
			}
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, &retryable{err: ctx.Err()}
			}
		}

		status, body, ra, err := c.once(ctx, fullURL)
		if err != nil {
			last = &retryable{err: err}
			if ctx.Err() != nil {
				return nil, last
			}
			continue
		}
		if status >= 500 || status == http.StatusTooManyRequests {
			last = &retryable{status: status, body: body, retryAfter: ra}
			c.logger.Debug("Retrying patent API call", logging.Int("status", status), logging.Int("attempt", attempt+1))
			continue
		}
		return &response{status: status, body: body}, nil
	}
	return nil, last
}

func (c *Client) once(ctx context.Context, fullURL string) (int, []byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return 0, nil, 0, err
	}
	req.Header.Set("X-RapidAPI-Key", c.cfg.APIKey)
	req.Header.Set("X-RapidAPI-Host", c.cfg.Host)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, 0, err
	}
	return resp.StatusCode, body, c.retryAfter(resp), nil
}

// maxRetryAfter bounds how long a 429 Retry-After may stall a request. It is
// independent of RetryWaitMax, which only bounds our own backoff.
const maxRetryAfter = 30 * time.Second

// retryAfter honours a Retry-After seconds header on a 429, up to maxRetryAfter.
func (c *Client) retryAfter(resp *http.Response) time.Duration {
	if resp.StatusCode != http.StatusTooManyRequests {
		return 0
	}
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	d := time.Duration(secs) * time.Second
	if d > maxRetryAfter {
		d = maxRetryAfter
	}
	return d
}

func (c *Client) backoff(attempt int) time.Duration {
	d := c.cfg.RetryWaitMin * time.Duration(1<<uint(attempt-1))
	if d > c.cfg.RetryWaitMax {
		d = c.cfg.RetryWaitMax
	}
	if q := int64(d / 4); q > 0 {
		d += time.Duration(rand.Int63n(q))
	}
	return d
}

//Personal.AI order the ending
