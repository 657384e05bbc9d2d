package request

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

const (
	userAgent = "CineMatch/1.0"

	// DefaultBaseURL is the production API origin used when none is configured
	DefaultBaseURL = "https://cinematch-api-9l0w.onrender.com"
)

// Observer receives lifecycle callbacks for each logical call.
// Implementations must be safe for concurrent use.
type Observer interface {
	OnAttempt(method, path string, attempt int, outcome OutcomeKind, elapsed time.Duration)
	OnRetry(method, path string, retry int, delay time.Duration)
	OnDone(method, path string, err error, elapsed time.Duration)
}

// Options tune a single call. Zero values fall back to the client defaults.
type Options struct {
	Method string
	Header http.Header
	Query  url.Values

	// Body is JSON-encoded when non-nil; a []byte or json.RawMessage is sent verbatim
	Body any

	Timeout    time.Duration
	MaxRetries *int
	BaseDelay  time.Duration
}

// Config configures a Client. Zero fields fall back to the package
// defaults; a nil MaxRetries means DefaultMaxRetries.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	MaxRetries *int
	BaseDelay  time.Duration
}

// Retries returns a pointer for Config.MaxRetries and Options.MaxRetries
func Retries(n int) *int {
	return &n
}

// Client is the single network entry point. It holds no mutable state after
// construction and is safe to share across goroutines.
type Client struct {
	baseURL    string
	timeout    time.Duration
	policy     Policy
	httpClient *http.Client
	observer   Observer
	logger     *slog.Logger
}

// Option customizes a Client at construction time
type Option func(*Client)

// WithHTTPClient replaces the transport client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithObserver installs call lifecycle hooks (metrics)
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// NewClient creates a resilient request client
func NewClient(cfg Config, logger *slog.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	maxRetries := DefaultMaxRetries
	if cfg.MaxRetries != nil {
		maxRetries = max(*cfg.MaxRetries, 0)
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = DefaultBaseDelay
	}

	c := &Client{
		baseURL: baseURL,
		timeout: cfg.Timeout,
		policy: Policy{
			MaxRetries: maxRetries,
			BaseDelay:  cfg.BaseDelay,
		},
		// Per-attempt deadlines come from WithTimeout, not http.Client.Timeout
		httpClient: &http.Client{},
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured origin
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ResolveURL joins a relative path onto the base origin. Paths that already
// carry a scheme are returned unchanged.
func (c *Client) ResolveURL(path string) string {
	if hasScheme(path) {
		return path
	}
	if path == "" {
		return c.baseURL
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

func hasScheme(path string) bool {
	u, err := url.Parse(path)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// Call performs a logical request: each attempt runs under the timeout
// guard and outcomes are classified by the retry policy. The returned
// Response is always a success (status in [200,400)); callers should still
// check OK() before decoding.
func (c *Client) Call(ctx context.Context, path string, opts Options) (*Response, error) {
	desc, err := c.describe(path, opts)
	if err != nil {
		return nil, err
	}

	policy := c.policy
	if opts.MaxRetries != nil {
		policy.MaxRetries = *opts.MaxRetries
	}
	if opts.BaseDelay > 0 {
		policy.BaseDelay = opts.BaseDelay
	}
	timeout := c.timeout
	if opts.Timeout > 0 {
		timeout = opts.Timeout
	}

	policy.OnRetry = func(retry int, cause error, delay time.Duration) {
		c.logger.Warn("retrying request",
			"method", desc.Method,
			"path", path,
			"retry", retry,
			"max_retries", policy.MaxRetries,
			"delay", delay,
			"error", cause,
		)
		if c.observer != nil {
			c.observer.OnRetry(desc.Method, path, retry, delay)
		}
	}

	start := time.Now()
	attemptNum := 0
	resp, err := policy.Do(ctx, desc.URL, func(ctx context.Context) (*Response, error) {
		attemptNum++
		attemptStart := time.Now()
		resp, err := WithTimeout(ctx, timeout, func(ctx context.Context) (*Response, error) {
			return c.roundTrip(ctx, desc)
		})
		if c.observer != nil {
			c.observer.OnAttempt(desc.Method, path, attemptNum, Classify(desc.URL, resp, err).Kind, time.Since(attemptStart))
		}
		return resp, err
	})

	elapsed := time.Since(start)
	if c.observer != nil {
		c.observer.OnDone(desc.Method, path, err, elapsed)
	}
	if err != nil {
		c.logger.Error("request failed", "method", desc.Method, "url", desc.URL, "kind", KindOf(err).String(), "error", err)
		return nil, err
	}

	c.logger.Debug("request complete", "method", desc.Method, "url", desc.URL, "status", resp.StatusCode, "attempts", resp.Attempts, "elapsed", elapsed)
	return resp, nil
}

// describe freezes the request for all attempts of one call
func (c *Client) describe(path string, opts Options) (Descriptor, error) {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	target := c.ResolveURL(path)
	if len(opts.Query) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + opts.Query.Encode()
	}

	header := http.Header{}
	for k, vs := range opts.Header {
		for _, v := range vs {
			header.Add(k, v)
		}
	}
	header.Set("Accept", "application/json")
	header.Set("User-Agent", userAgent)
	if header.Get("X-Request-ID") == "" {
		header.Set("X-Request-ID", uuid.NewString())
	}

	var body []byte
	switch b := opts.Body.(type) {
	case nil:
	case []byte:
		body = b
	case json.RawMessage:
		body = b
	default:
		encoded, err := json.Marshal(b)
		if err != nil {
			return Descriptor{}, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = encoded
	}
	if body != nil {
		header.Set("Content-Type", "application/json")
	}

	return Descriptor{Method: method, URL: target, Header: header, Body: body}, nil
}

// roundTrip performs one attempt and buffers the body while still inside
// the attempt deadline
func (c *Client) roundTrip(ctx context.Context, desc Descriptor) (*Response, error) {
	var body io.Reader = http.NoBody
	if desc.Body != nil {
		body = bytes.NewReader(desc.Body)
	}

	req, err := http.NewRequestWithContext(ctx, desc.Method, desc.URL, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header = desc.Header.Clone()

	c.logger.Debug("api request", "method", desc.Method, "url", desc.URL)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       data,
	}, nil
}
