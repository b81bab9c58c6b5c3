// Package fetcher talks to the retailer's product-detail API.
package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Houeta/stock-flow/internal/metrics"
	"github.com/Houeta/stock-flow/internal/retry"
	"golang.org/x/time/rate"
)

const (
	// DefaultUserAgent is a fixed desktop browser user agent sent with every request.
	DefaultUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"
	DefaultBaseURL   = "https://www.zara.com"

	acceptJSON     = "application/json, text/plain, */*"
	acceptHTML     = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	acceptLanguage = "en-US,en;q=0.9"
	maxBodySize    = 8 << 20
)

var (
	// ErrNoData is wrapped by every error returned from Fetch: there is no data this cycle.
	ErrNoData = errors.New("no product data")
	// ErrNoResults means the API answered with a well-formed but empty result. Not retried.
	ErrNoResults = errors.New("product API returned no results")
	// ErrStatus means the API answered with a non-200 status.
	ErrStatus = errors.New("unexpected status code")
	// ErrMalformed means a 200 response whose body is not the expected JSON array.
	ErrMalformed = errors.New("malformed response body")

	errBuildRequest = errors.New("failed to build request")
)

// Config holds the settings of a Client.
type Config struct {
	BaseURL        string
	Country        string
	Language       string
	Timeout        time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
	RateLimit      rate.Limit // requests per second, 0 disables pacing
	Burst          int
	UserAgent      string
}

// Client issues requests to the product API with retries and pacing.
// It is safe for concurrent use.
type Client struct {
	log     *slog.Logger
	client  *http.Client
	cfg     Config
	policy  retry.Policy
	limiter *rate.Limiter
	metrics metrics.Recorder
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.client = client
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(recorder metrics.Recorder) Option {
	return func(c *Client) {
		c.metrics = recorder
	}
}

// New creates a Client. Zero values in cfg are replaced by defaults.
func New(log *slog.Logger, cfg Config, opts ...Option) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.MaxRetries < 1 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryBaseDelay <= 0 {
		cfg.RetryBaseDelay = time.Second
	}
	cfg.Country = strings.ToLower(cfg.Country)
	cfg.Language = strings.ToLower(cfg.Language)

	c := &Client{
		log:     log,
		client:  &http.Client{Timeout: cfg.Timeout},
		cfg:     cfg,
		metrics: metrics.Nop{},
	}

	if cfg.RateLimit > 0 {
		burst := max(cfg.Burst, 1)
		c.limiter = rate.NewLimiter(cfg.RateLimit, burst)
	}

	c.policy = retry.Policy{
		MaxAttempts: cfg.MaxRetries,
		Backoff:     retry.Exponential(cfg.RetryBaseDelay),
		IsRetryable: isRetryable,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			c.log.Warn(
				"Product API attempt failed, retrying",
				"attempt", attempt+1,
				"max_attempts", cfg.MaxRetries,
				"delay", delay,
				"error", err,
			)
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// APIURL returns the product-detail endpoint for a variant.
func (c *Client) APIURL(variantID string) string {
	return fmt.Sprintf(
		"%s/%s/%s/products-details?productIds=%s",
		c.cfg.BaseURL, c.cfg.Country, c.cfg.Language, url.QueryEscape(variantID),
	)
}

// Fetch returns the raw JSON of the first product record for variantID.
// Transient failures are retried; every returned error wraps ErrNoData.
func (c *Client) Fetch(ctx context.Context, variantID string) ([]byte, error) {
	const opn = "fetcher.Fetch"
	apiURL := c.APIURL(variantID)

	raw, err := retry.Do(ctx, c.policy, func(ctx context.Context, _ int) ([]byte, error) {
		return c.fetchOnce(ctx, apiURL)
	})
	if err != nil {
		c.metrics.RecordFetchFailure(failureReason(err))
		if errors.Is(err, retry.ErrExhausted) {
			c.log.ErrorContext(ctx, "All product API attempts failed", "op", opn, "variant_id", variantID, "error", err)
		}
		return nil, fmt.Errorf("%s: %w: %w", opn, ErrNoData, err)
	}

	c.metrics.RecordFetchSuccess()

	return raw, nil
}

// GetPage performs a single plain GET of a product page and returns its body.
func (c *Client) GetPage(ctx context.Context, pageURL string) ([]byte, error) {
	const opn = "fetcher.GetPage"

	res, err := c.do(ctx, pageURL, acceptHTML)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opn, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s: %w: [%d] %s", opn, ErrStatus, res.StatusCode, res.Status)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read page body: %w", opn, err)
	}

	return body, nil
}

func (c *Client) fetchOnce(ctx context.Context, apiURL string) ([]byte, error) {
	start := time.Now()

	res, err := c.do(ctx, apiURL, acceptJSON)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	c.metrics.RecordFetchLatency(time.Since(start))
	c.metrics.RecordHTTPStatus(res.StatusCode)

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: [%d] %s", ErrStatus, res.StatusCode, res.Status)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	var records []json.RawMessage
	if err = json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	if len(records) == 0 || string(records[0]) == "null" {
		return nil, ErrNoResults
	}

	c.log.DebugContext(ctx, "Received product API response", "url", apiURL, "records", len(records))

	return records[0], nil
}

func (c *Client) do(ctx context.Context, target, accept string) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", errBuildRequest, target, err)
	}

	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", accept)
	req.Header.Set("Accept-Language", acceptLanguage)
	req.Header.Set("Referer", fmt.Sprintf("%s/%s/%s/", c.cfg.BaseURL, c.cfg.Country, c.cfg.Language))

	c.log.DebugContext(ctx, "Send request", "method", req.Method, "URL", req.URL)

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", target, err)
	}

	return res, nil
}

// isRetryable: network errors, bad statuses and malformed bodies are transient;
// empty results, cancellation and broken requests are not.
func isRetryable(err error) bool {
	switch {
	case errors.Is(err, ErrNoResults),
		errors.Is(err, errBuildRequest),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded) && !isTimeout(err):
		return false
	default:
		return true
	}
}

// failureReason labels a failed fetch by the cause of its last attempt.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrNoResults):
		return "no_results"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrStatus):
		return "status"
	case errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded) && !isTimeout(err):
		return "cancelled"
	default:
		return "network"
	}
}

// isTimeout reports a per-request client timeout, which is worth retrying
// as long as the caller's context is still alive.
func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}
