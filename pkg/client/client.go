// Package client provides the shared upstream HTTP client used to reach the
// Steam Web API, the FACEIT Data API and the tracking endpoint, with error
// classification and request metrics.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Prometheus metrics for upstream requests.
var (
	upstreamRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_requests_total",
		Help: "Total upstream requests by upstream and status",
	}, []string{"upstream", "status"})

	upstreamRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "upstream_request_duration_seconds",
		Help:    "Upstream request duration in seconds by upstream",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"upstream"})

	upstreamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "upstream_errors_total",
		Help: "Total upstream errors by upstream and class",
	}, []string{"upstream", "class"})
)

// ErrorClass represents a classification of upstream errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors other than 429.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 Too Many Requests.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents transport errors and timeouts.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents a 2xx response whose body could not be decoded.
	ErrorClassDecode ErrorClass = "decode"
)

const (
	// DefaultTimeout bounds a single upstream call.
	DefaultTimeout = 10 * time.Second

	// DefaultUserAgent is sent when no User-Agent is configured.
	DefaultUserAgent = "profile-peek/1.0 (+https://profile-peek.com)"

	// maxErrorBody caps how much of a failed response body ends up in an error.
	maxErrorBody = 512
)

// Config holds the client configuration.
type Config struct {
	// Name labels metrics and log lines ("steam", "faceit", "tracking").
	Name string

	// BaseURL is prefixed to every request path.
	BaseURL string

	// UserAgent header sent with every request.
	UserAgent string

	// BearerToken, when set, is sent as "Authorization: Bearer <token>".
	BearerToken string

	// Timeout for a single request, including reading the body.
	Timeout time.Duration
}

// DefaultConfig returns a configuration with default timeout and User-Agent.
func DefaultConfig(name, baseURL string) Config {
	return Config{
		Name:      name,
		BaseURL:   baseURL,
		UserAgent: DefaultUserAgent,
		Timeout:   DefaultTimeout,
	}
}

// Client performs requests against one upstream API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	config     Config
	logger     zerolog.Logger
}

// New creates a new upstream client.
func New(cfg Config) (*Client, error) {
	if cfg.Name == "" {
		return nil, fmt.Errorf("upstream name is required")
	}

	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
	}

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		config:     cfg,
		logger:     log.With().Str("component", "upstream-client").Str("upstream", cfg.Name).Logger(),
	}, nil
}

// Name returns the upstream label.
func (c *Client) Name() string {
	return c.config.Name
}

// URL joins the base URL, path and query.
func (c *Client) URL(path string, query url.Values) string {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// Do executes req with the configured headers. Any non-2xx response is
// returned as an *APIError with the body already closed; on success the
// caller owns the response body.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	upstream := c.config.Name

	startTime := time.Now()
	defer func() {
		upstreamRequestDuration.WithLabelValues(upstream).Observe(time.Since(startTime).Seconds())
	}()

	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")
	if c.config.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.BearerToken)
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Msg("Executing upstream request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Query strings carry API keys.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			urlErr.URL = redactQuery(urlErr.URL)
		}
		upstreamErrorsTotal.WithLabelValues(upstream, string(ErrorClassNetwork)).Inc()
		upstreamRequestsTotal.WithLabelValues(upstream, "network_error").Inc()
		c.logger.Warn().Err(err).Str("path", req.URL.Path).Msg("Upstream request failed")
		return nil, &APIError{
			Upstream:   upstream,
			ErrorClass: ErrorClassNetwork,
			Message:    "request failed",
			Err:        err,
		}
	}

	upstreamRequestsTotal.WithLabelValues(upstream, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		resp.Body.Close()

		errClass := classifyStatus(resp.StatusCode)
		upstreamErrorsTotal.WithLabelValues(upstream, string(errClass)).Inc()

		c.logger.Warn().
			Str("path", req.URL.Path).
			Int("status", resp.StatusCode).
			Str("error_class", string(errClass)).
			Msg("Upstream request error")

		msg := resp.Status
		if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
			msg = fmt.Sprintf("%s: %s", resp.Status, trimmed)
		}
		return nil, &APIError{
			Upstream:   upstream,
			StatusCode: resp.StatusCode,
			ErrorClass: errClass,
			Message:    msg,
		}
	}

	return resp, nil
}

// GetJSON performs a GET against path and decodes the JSON body into out.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(path, query), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		upstreamErrorsTotal.WithLabelValues(c.config.Name, string(ErrorClassDecode)).Inc()
		return &APIError{
			Upstream:   c.config.Name,
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassDecode,
			Message:    "decode response",
			Err:        err,
		}
	}
	return nil
}

// PostJSON marshals body and POSTs it to path. The response body is discarded.
func (c *Client) PostJSON(ctx context.Context, path string, body any, header http.Header) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL(path, nil), bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for key, values := range header {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.Body.Close()
}

// redactQuery drops the query string from rawURL.
func redactQuery(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		base, _, _ := strings.Cut(rawURL, "?")
		return base
	}
	u.RawQuery = ""
	u.ForceQuery = false
	return u.String()
}

// classifyStatus categorizes a non-2xx status code.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 500:
		return ErrorClassServer
	default:
		return ErrorClassClient
	}
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}
