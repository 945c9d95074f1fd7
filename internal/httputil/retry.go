// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the upstream clients.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pdiddy/target-atlas/internal/metrics"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const defaultMaxRetries = 5

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests) with exponential backoff: RetryBaseDelay, doubled per attempt.
// A Retry-After header in seconds takes precedence when it is longer.
//
// When maxRetries is 0 the default (5) is used. The provider label is used
// for logging and metrics only. If ctx is cancelled during a backoff wait
// the function returns ctx.Err(). After exhausting retries the last 429
// response is returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, provider string, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		start := time.Now()
		resp, err := client.Do(req.Clone(ctx))
		metrics.HTTPDuration.WithLabelValues(provider).Observe(time.Since(start).Seconds())
		if err != nil {
			metrics.HTTPRequests.WithLabelValues(provider, "error").Inc()
			return nil, err
		}
		metrics.HTTPRequests.WithLabelValues(provider, metrics.StatusLabel(resp.StatusCode)).Inc()

		if resp.StatusCode != http.StatusTooManyRequests || attempt >= maxRetries {
			return resp, nil
		}

		backoff := time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
		if ra := retryAfter(resp); ra > backoff {
			backoff = ra
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		metrics.HTTPRetries.WithLabelValues(provider).Inc()
		log.Warn().
			Str("provider", provider).
			Str("url", req.URL.String()).
			Dur("backoff", backoff).
			Int("attempt", attempt+1).
			Int("max_retries", maxRetries).
			Msg("Rate limited, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// retryAfter parses a Retry-After header given in seconds.
func retryAfter(resp *http.Response) time.Duration {
	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0
	}
	d, err := time.ParseDuration(v + "s")
	if err != nil || d < 0 {
		return 0
	}
	return d
}
