package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/evemarkets-go/internal/domain/shared"
	"github.com/andrescamacho/evemarkets-go/internal/infrastructure/config"
)

const (
	defaultBaseURL     = "https://esi.evetech.net/latest"
	defaultTimeout     = 30 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = time.Second
	defaultPageDelay   = 200 * time.Millisecond

	// pagesHeader advertises the total page count of a paginated order-book
	// response. Its absence means the endpoint is not paginated.
	pagesHeader = "X-Pages"
)

// ESIClient is the HTTP client for the external market and universe API.
// Requests are rate limited with a token bucket and retried with
// exponential backoff plus jitter on transient failures.
type ESIClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	maxRetries  int
	backoffBase time.Duration
	pageDelay   time.Duration
	clock       shared.Clock
}

// NewESIClient creates a client with default settings
func NewESIClient() *ESIClient {
	return NewESIClientWithConfig(&config.APIConfig{
		BaseURL:     defaultBaseURL,
		Timeout:     defaultTimeout,
		PageDelay:   defaultPageDelay,
		RateLimit:   config.RateLimitConfig{Requests: 20, Burst: 40},
		Retry:       config.RetryConfig{MaxAttempts: defaultMaxRetries, BackoffBase: defaultBackoffBase},
	}, nil)
}

// NewESIClientWithConfig creates a client with custom configuration.
// If clock is nil, uses RealClock for production.
func NewESIClientWithConfig(cfg *config.APIConfig, clock shared.Clock) *ESIClient {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ESIClient{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimit.Requests), cfg.RateLimit.Burst),
		baseURL:     cfg.BaseURL,
		maxRetries:  cfg.Retry.MaxAttempts,
		backoffBase: cfg.Retry.BackoffBase,
		pageDelay:   cfg.PageDelay,
		clock:       clock,
	}
}

// addJitter adds random jitter to a duration to avoid thundering herd.
// Returns a duration between 50% and 150% of the original value.
func addJitter(d time.Duration) time.Duration {
	jitter := 0.5 + rand.Float64()
	return time.Duration(float64(d) * jitter)
}

// get makes a GET request with rate limiting and retries, unmarshals the
// response body into result, and returns the response headers
func (c *ESIClient) get(ctx context.Context, path string, result interface{}) (http.Header, error) {
	url := c.baseURL + path

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Network error - retryable
			lastErr = fmt.Errorf("network error: %w", err)
			if attempt >= c.maxRetries {
				break
			}
			if ctx.Err() != nil {
				return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
			}
			c.clock.Sleep(addJitter(c.backoffBase * time.Duration(1<<attempt)))
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read response: %w", err)
		}

		// 429 and 5xx are retryable; honor Retry-After when present
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("server error (status %d)", resp.StatusCode)
			if attempt >= c.maxRetries {
				break
			}
			if ctx.Err() != nil {
				return nil, fmt.Errorf("context cancelled: %w", ctx.Err())
			}

			backoffDelay := addJitter(c.backoffBase * time.Duration(1<<attempt))
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				if seconds, err := strconv.Atoi(retryAfter); err == nil {
					backoffDelay = time.Duration(seconds) * time.Second
				}
			}
			c.clock.Sleep(backoffDelay)
			continue
		}

		// Remaining non-2xx statuses are not retryable
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
		}

		if result != nil {
			if err := json.Unmarshal(respBody, result); err != nil {
				return nil, fmt.Errorf("failed to unmarshal response: %w", err)
			}
		}

		return resp.Header, nil
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}
