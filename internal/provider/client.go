package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/brewrank/brewrank/internal/cache"
	"github.com/brewrank/brewrank/internal/model"
	"github.com/brewrank/brewrank/internal/worker"
)

// Client is the HTTP client shared by all providers: timeouts, a per-host
// token bucket, bounded retry with exponential back-off on rate limits, and
// an optional response cache.
type Client struct {
	httpClient *http.Client
	limiter    *worker.Limiter
	cache      cache.Cache // nil when caching is disabled
	cacheTTL   time.Duration
	userAgent  string
	maxBytes   int64
	retryMax   int
	retryBase  time.Duration
}

// NewClient creates a client from the HTTP config. responseCache may be nil.
func NewClient(cfg model.HTTPConfig, responseCache cache.Cache, cacheTTL time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		limiter:    worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		cache:      responseCache,
		cacheTTL:   cacheTTL,
		userAgent:  cfg.UserAgent,
		maxBytes:   cfg.MaxBodyBytes,
		retryMax:   cfg.RetryMax,
		retryBase:  cfg.RetryBaseDelay,
	}
}

// GetJSON fetches rawURL and decodes the response body into v. Successful
// bodies are cached under a credential-stripped key. Rate-limit (429) and
// server (5xx) responses are retried at most retryMax times with exponential
// back-off, honoring Retry-After when the server sends one.
func (c *Client) GetJSON(ctx context.Context, provider, rawURL string, header http.Header, v interface{}) error {
	key := cache.ResponseKey(provider, rawURL)
	if c.cache != nil {
		if body, found := c.cache.Get(key); found {
			log.WithFields(log.Fields{"provider": provider}).Debug("cache hit")
			return json.Unmarshal(body, v)
		}
	}

	body, err := c.fetch(ctx, provider, rawURL, header)
	if err != nil {
		return err
	}

	if c.cache != nil {
		if err := c.cache.Set(key, body, c.cacheTTL); err != nil {
			log.WithError(err).Warn("failed to cache response")
		}
	}

	return json.Unmarshal(body, v)
}

// Uncache drops a previously cached response for rawURL. Google Places
// reports quota and credential failures in-body with HTTP 200, so the
// provider calls this when it decodes such a payload; otherwise the error
// response would be replayed from cache for the full TTL.
func (c *Client) Uncache(provider, rawURL string) {
	if c.cache == nil {
		return
	}
	if err := c.cache.Delete(cache.ResponseKey(provider, rawURL)); err != nil {
		log.WithError(err).Warn("failed to drop cached response")
	}
}

func (c *Client) fetch(ctx context.Context, provider, rawURL string, header http.Header) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.retryMax; attempt++ {
		if err := c.limiter.Wait(ctx, rawURL); err != nil {
			return nil, err
		}

		body, retryAfter, err := c.do(ctx, rawURL, header)
		if err == nil {
			return body, nil
		}
		lastErr = err

		if !retryable(err) {
			return nil, err
		}

		if attempt == c.retryMax {
			break
		}

		delay := c.retryBase * (1 << uint(attempt))
		if retryAfter > delay {
			delay = retryAfter
		}
		log.WithFields(log.Fields{
			"provider": provider,
			"attempt":  attempt + 1,
			"delay":    delay,
		}).Warnf("request failed, retrying: %v", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, fmt.Errorf("%s: giving up after %d attempts: %w", provider, c.retryMax+1, lastErr)
}

func (c *Client) do(ctx context.Context, rawURL string, header http.Header) ([]byte, time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, &statusError{err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	for k, vals := range header {
		for _, val := range vals {
			req.Header.Set(k, val)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport errors (timeouts, resets) are worth a retry.
		return nil, 0, &statusError{code: http.StatusServiceUnavailable, err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, retryAfter, &statusError{
			code: resp.StatusCode,
			err:  fmt.Errorf("unexpected status %d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes))
	if err != nil {
		return nil, 0, &statusError{code: http.StatusServiceUnavailable, err: fmt.Errorf("read body: %w", err)}
	}

	return body, 0, nil
}

// statusError carries the HTTP status so the retry loop can tell rate limits
// and server hiccups apart from permanent client errors.
type statusError struct {
	code int
	err  error
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

func retryable(err error) bool {
	se, ok := err.(*statusError)
	if !ok {
		return false
	}
	return se.code == http.StatusTooManyRequests || se.code >= 500
}

func parseRetryAfter(val string) time.Duration {
	if val == "" {
		return 0
	}
	secs, err := strconv.Atoi(val)
	if err != nil || secs < 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
