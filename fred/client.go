package fred

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sartorproj/gofred/cache"
	"github.com/sartorproj/gofred/internal/logging"
)

const (
	// DefaultBaseURL is the FRED API host.
	DefaultBaseURL = "https://api.stlouisfed.org"
	// DefaultHTTPTimeout is used by clients created without a custom http.Client.
	DefaultHTTPTimeout = 15 * time.Second
	// DefaultConcurrency bounds the number of parallel requests made by FetchMany.
	DefaultConcurrency = 4
)

// ErrMissingAPIKey is returned by NewClient when no API key is given.
var ErrMissingAPIKey = errors.New("fred: api key is required")

// APIError is an error reported by the FRED API.
type APIError struct {
	StatusCode int
	Code       int    `json:"error_code"`
	Message    string `json:"error_message"`
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("fred api error (%d): %s", e.StatusCode, e.Message)
}

// Client talks to the FRED web API.
type Client struct {
	baseURL     *url.URL
	apiKey      string
	httpClient  *http.Client
	timeout     time.Duration
	cache       cache.Cache
	cacheTTL    time.Duration
	concurrency int
	logger      *zap.Logger

	group singleflight.Group
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	baseURL     string
	httpClient  *http.Client
	timeout     time.Duration
	cache       cache.Cache
	cacheTTL    time.Duration
	concurrency int
	logger      *zap.Logger
}

// WithBaseURL points the client at another API host, e.g. a test server.
func WithBaseURL(raw string) Option {
	return func(o *clientOptions) { o.baseURL = raw }
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = hc }
}

// WithTimeout sets the timeout of the default HTTP client. It also bounds
// round trips shared between concurrent callers.
func WithTimeout(d time.Duration) Option {
	return func(o *clientOptions) { o.timeout = d }
}

// WithCache stores raw responses in c for ttl. A zero ttl keeps them forever.
func WithCache(c cache.Cache, ttl time.Duration) Option {
	return func(o *clientOptions) {
		o.cache = c
		o.cacheTTL = ttl
	}
}

// WithConcurrency bounds the parallel requests made by FetchMany.
func WithConcurrency(n int) Option {
	return func(o *clientOptions) { o.concurrency = n }
}

// WithLogger sets the client logger. By default the package logger is used.
func WithLogger(l *zap.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// NewClient creates a FRED client for the given API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	o := clientOptions{
		baseURL:     DefaultBaseURL,
		timeout:     DefaultHTTPTimeout,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(&o)
	}

	parsed, err := url.Parse(o.baseURL)
	if err != nil {
		return nil, fmt.Errorf("fred: invalid base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("fred: invalid base url %q", o.baseURL)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: o.timeout}
	}
	if o.logger == nil {
		o.logger = logging.Named("fred")
	}
	if o.concurrency <= 0 {
		o.concurrency = DefaultConcurrency
	}
	if o.timeout <= 0 {
		o.timeout = DefaultHTTPTimeout
	}

	return &Client{
		baseURL:     parsed,
		apiKey:      apiKey,
		httpClient:  o.httpClient,
		timeout:     o.timeout,
		cache:       o.cache,
		cacheTTL:    o.cacheTTL,
		concurrency: o.concurrency,
		logger:      o.logger,
	}, nil
}

// get requests endpoint with params and decodes the JSON body into out.
// Identical concurrent requests share one round trip, and responses are
// served from the cache when one is configured. The shared round trip is
// detached from any single caller's cancellation; each caller stops waiting
// when its own ctx is done.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	key := endpoint + "?" + params.Encode()

	if c.cache != nil {
		data, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		} else if ok {
			c.logger.Debug("cache hit", zap.String("key", key))
			return decode(data, out)
		}
	}

	ch := c.group.DoChan(key, func() (any, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
		defer cancel()
		data, err := c.fetch(fctx, endpoint, params)
		if err != nil {
			return nil, err
		}
		if c.cache != nil {
			if err := c.cache.Set(fctx, key, data, c.cacheTTL); err != nil {
				c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return data, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return res.Err
	}
	return decode(res.Val.([]byte), out)
}

func decode(data []byte, out any) error {
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// fetch performs the HTTP round trip and returns the raw body.
func (c *Client) fetch(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	requestID := uuid.NewString()
	logger := c.logger.With(
		zap.String("request_id", requestID),
		zap.String("endpoint", endpoint),
	)

	query := url.Values{}
	for k, v := range params {
		query[k] = v
	}
	query.Set("api_key", c.apiKey)
	query.Set("file_type", "json")

	rel := &url.URL{Path: path.Join(c.baseURL.Path, endpoint), RawQuery: query.Encode()}
	u := c.baseURL.ResolveReference(rel)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Debug("request failed", zap.Error(err))
		return nil, fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	logger.Debug("fred request",
		zap.String("query", params.Encode()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if len(data) > 0 {
			_ = json.Unmarshal(data, apiErr)
		}
		if apiErr.Message == "" {
			apiErr.Message = string(bytes.TrimSpace(data))
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		logger.Warn("fred api error", zap.Int("status", resp.StatusCode), zap.String("message", apiErr.Message))
		return nil, apiErr
	}
	return data, nil
}
