// Package httpclient provides the HTTP client shared by tickwatch components
// that talk to the sightings API. It adds per-request timeouts, a client-side
// rate limit and a response hook on top of net/http.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout applies when the request context has no deadline.
	DefaultTimeout = 15 * time.Second

	defaultMaxIdleConnsPerHost   = 4
	defaultIdleConnTimeout       = 90 * time.Second
	defaultTLSHandshakeTimeout   = 10 * time.Second
	defaultResponseHeaderTimeout = 10 * time.Second
	defaultDialTimeout           = 10 * time.Second

	// DefaultUserAgent is sent when the caller does not set one.
	DefaultUserAgent = "tickwatch"
)

// Config holds configuration for creating an HTTP client.
type Config struct {
	// Timeout is applied if the request context has no deadline.
	Timeout time.Duration

	// UserAgent is added to requests that do not carry one.
	UserAgent string

	// RateLimit is the sustained request rate per second. Zero disables limiting.
	RateLimit float64

	// Burst is the limiter bucket size, at least 1.
	Burst int
}

// Client wraps http.Client. Safe for concurrent use.
type Client struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	limiter   *rate.Limiter

	hookMu        sync.RWMutex
	afterResponse func(*http.Request, *http.Response, time.Duration, error)
}

// New creates a client. A nil cfg uses defaults.
func New(cfg *Config) *Client {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.Burst < 1 {
		c.Burst = 1
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   defaultDialTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
		IdleConnTimeout:       defaultIdleConnTimeout,
		TLSHandshakeTimeout:   defaultTLSHandshakeTimeout,
		ResponseHeaderTimeout: defaultResponseHeaderTimeout,
	}

	client := &Client{
		client:    &http.Client{Transport: transport},
		timeout:   c.Timeout,
		userAgent: c.UserAgent,
	}
	if c.RateLimit > 0 {
		client.limiter = rate.NewLimiter(rate.Limit(c.RateLimit), c.Burst)
	}
	return client
}

// HTTPClient exposes the underlying client, for transport mocking in tests.
func (c *Client) HTTPClient() *http.Client {
	return c.client
}

// Do executes req. When ctx has no deadline the default timeout applies
// until the response body is closed.
//
// The response body must be closed by the caller if err is nil.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var cancel context.CancelFunc = func() {}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			cancel()
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req = req.WithContext(ctx)
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	elapsed := time.Since(start)

	c.hookMu.RLock()
	hook := c.afterResponse
	c.hookMu.RUnlock()
	if hook != nil {
		hook(req, resp, elapsed, err)
	}

	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// Get performs a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.Do(ctx, req)
}

// PostJSON marshals body and POSTs it as application/json.
func (c *Client) PostJSON(ctx context.Context, url string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal body: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create POST request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return c.Do(ctx, req)
}

// SetAfterResponseHook sets a function called after every round trip with
// the elapsed time. resp is nil when err is set.
func (c *Client) SetAfterResponseHook(fn func(req *http.Request, resp *http.Response, elapsed time.Duration, err error)) {
	c.hookMu.Lock()
	defer c.hookMu.Unlock()
	c.afterResponse = fn
}

// Close closes idle connections in the pool.
func (c *Client) Close() {
	c.client.CloseIdleConnections()
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}
