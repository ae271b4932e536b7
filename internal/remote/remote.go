// Package remote talks to the tick sightings API.
//
// Reads try the primary list endpoint and, on any failure, exactly one
// alternate endpoint. The caller decides what to do when both fail.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/tphakala/tickwatch/internal/conf"
	"github.com/tphakala/tickwatch/internal/errors"
	"github.com/tphakala/tickwatch/internal/httpclient"
	"github.com/tphakala/tickwatch/internal/logger"
	"github.com/tphakala/tickwatch/internal/observability/metrics"
	"github.com/tphakala/tickwatch/internal/sighting"
)

// maxResponseBytes bounds how much of a list response is read.
const maxResponseBytes = 16 << 20

// Client is the sightings API client.
type Client struct {
	http        *httpclient.Client
	baseURL     string
	primaryPath string
	retryPath   string
	timeout     time.Duration
	metrics     *metrics.SightingsMetrics
	log         logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMetrics records fetch metrics.
func WithMetrics(m *metrics.SightingsMetrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a client for the API described by settings.
func New(settings *conf.RemoteSettings, opts ...Option) *Client {
	c := &Client{
		http: httpclient.New(&httpclient.Config{
			Timeout:   settings.Timeout,
			UserAgent: settings.UserAgent,
			RateLimit: settings.RateLimit,
		}),
		baseURL:     strings.TrimRight(settings.BaseURL, "/"),
		primaryPath: settings.PrimaryPath,
		retryPath:   settings.RetryPath,
		timeout:     settings.Timeout,
		log:         logger.Global().Module("remote"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.http.SetAfterResponseHook(c.observeRoundTrip)
	return c
}

func (c *Client) observeRoundTrip(req *http.Request, resp *http.Response, elapsed time.Duration, err error) {
	code := "error"
	if resp != nil {
		code = strconv.Itoa(resp.StatusCode)
	}
	c.metrics.RecordHTTPRequest(req.Method, code)
	c.log.Trace("round trip",
		logger.String("method", req.Method),
		logger.String("path", req.URL.Path),
		logger.String("code", code),
		logger.Bool("ok", err == nil && resp != nil && resp.StatusCode < http.StatusBadRequest),
		logger.Duration("elapsed", elapsed))
}

// HTTPClient exposes the underlying HTTP client.
func (c *Client) HTTPClient() *http.Client {
	return c.http.HTTPClient()
}

// Close releases idle connections.
func (c *Client) Close() {
	c.http.Close()
}

// FetchSightings reads the sighting list. It returns the records and the
// path of the endpoint that served them. When the primary endpoint fails
// with a fetch or format error the alternate endpoint is tried once; if
// that also fails the returned error carries the alternate's category.
func (c *Client) FetchSightings(ctx context.Context) ([]sighting.Sighting, string, error) {
	records, err := c.fetch(ctx, c.primaryPath)
	if err == nil {
		return records, c.primaryPath, nil
	}
	if !errors.Recoverable(err) {
		return nil, "", err
	}

	c.log.Warn("primary sightings endpoint failed, retrying alternate",
		logger.String("endpoint", c.primaryPath),
		logger.String("retry_endpoint", c.retryPath),
		logger.Error(err))

	retryRecords, retryErr := c.fetch(ctx, c.retryPath)
	if retryErr == nil {
		return retryRecords, c.retryPath, nil
	}

	category := errors.CategoryFetch
	if errors.IsCategory(retryErr, errors.CategoryFormat) {
		category = errors.CategoryFormat
	}
	return nil, "", errors.New(fmt.Errorf("sightings unavailable: %w", errors.Join(err, retryErr))).
		Component("remote").
		Category(category).
		Context("endpoint", c.primaryPath).
		Context("retry_endpoint", c.retryPath).
		Build()
}

func (c *Client) fetch(ctx context.Context, path string) ([]sighting.Sighting, error) {
	url := c.baseURL + path
	start := time.Now()

	records, err := c.get(ctx, url, path)

	status := metrics.StatusSuccess
	if err != nil {
		status = metrics.StatusError
	}
	c.metrics.RecordFetch(path, status, time.Since(start).Seconds())

	if err == nil {
		c.log.Debug("fetched sightings",
			logger.String("endpoint", path),
			logger.Int("count", len(records)),
			logger.Duration("elapsed", time.Since(start)))
	}
	return records, err
}

func (c *Client) get(ctx context.Context, url, path string) ([]sighting.Sighting, error) {
	resp, err := c.http.Get(ctx, url)
	if err != nil {
		return nil, errors.New(fmt.Errorf("GET %s: %w", path, err)).
			Component("remote").
			Category(errors.CategoryFetch).
			NetworkContext(url, c.timeout).
			Context("endpoint", path).
			Build()
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.log.Debug("failed to close response body", logger.Error(cerr))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, errors.Newf("GET %s: unexpected status %d", path, resp.StatusCode).
			Component("remote").
			Category(errors.CategoryFetch).
			Context("endpoint", path).
			Context("status_code", resp.StatusCode).
			Build()
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.New(fmt.Errorf("GET %s: reading body: %w", path, err)).
			Component("remote").
			Category(errors.CategoryFetch).
			Context("endpoint", path).
			Build()
	}

	records, err := DecodeSightings(body)
	if err != nil {
		return nil, errors.New(fmt.Errorf("GET %s: %w", path, err)).
			Component("remote").
			Category(errors.CategoryFormat).
			Context("endpoint", path).
			Build()
	}
	return records, nil
}

// DecodeSightings accepts either a bare JSON array of sightings or an object
// whose "sightings" property is one. Any other shape is a format error.
func DecodeSightings(body []byte) ([]sighting.Sighting, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, formatError("empty response body")
	}

	var raw json.RawMessage
	switch trimmed[0] {
	case '[':
		raw = trimmed
	case '{':
		var wrapper struct {
			Sightings json.RawMessage `json:"sightings"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, formatError("invalid JSON object: %v", err)
		}
		inner := bytes.TrimSpace(wrapper.Sightings)
		if len(inner) == 0 || inner[0] != '[' {
			return nil, formatError("object has no sightings array")
		}
		raw = inner
	default:
		return nil, formatError("expected an array or an object with a sightings array")
	}

	records := []sighting.Sighting{}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, formatError("invalid sightings array: %v", err)
	}
	return records, nil
}

func formatError(format string, args ...any) error {
	return errors.Newf("unexpected response format: "+format, args...).
		Component("remote").
		Category(errors.CategoryFormat).
		Build()
}

// PostSighting sends a new sighting to the primary endpoint. A network
// failure or a non-2xx status is reported as a submission error.
func (c *Client) PostSighting(ctx context.Context, s *sighting.Sighting) error {
	url := c.baseURL + c.primaryPath
	resp, err := c.http.PostJSON(ctx, url, s)
	if err != nil {
		return errors.New(fmt.Errorf("POST %s: %w", c.primaryPath, err)).
			Component("remote").
			Category(errors.CategorySubmission).
			NetworkContext(url, c.timeout).
			Build()
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Newf("POST %s: unexpected status %d", c.primaryPath, resp.StatusCode).
			Component("remote").
			Category(errors.CategorySubmission).
			Context("status_code", resp.StatusCode).
			Build()
	}

	c.log.Info("sighting submitted", logger.String("location", s.Location), logger.Int("status", resp.StatusCode))
	return nil
}
