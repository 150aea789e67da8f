// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by search providers.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

// RetryBaseDelay controls the base duration for exponential backoff on
// HTTP 429 responses. Tests override this to avoid real sleeps.
var RetryBaseDelay = 10 * time.Second

const defaultMaxRetries = 5

// rateLimitedError marks a 429 response so that only rate limiting is retried.
type rateLimitedError struct {
	status int
}

func (e *rateLimitedError) Error() string {
	return fmt.Sprintf("rate limited: HTTP %d", e.status)
}

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests) with exponential backoff. The delay starts at RetryBaseDelay
// and doubles each attempt.
//
// When maxRetries is 0 the default (5) is used. Requests with a body are
// replayed through req.GetBody. Transport errors are returned immediately.
// If the context is cancelled during a backoff wait the function returns
// ctx.Err(). After exhausting retries the last 429 response is returned so
// the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	return DoWithBackoff(ctx, client, req, maxRetries, RetryBaseDelay)
}

// DoWithBackoff is DoWithRetry with an explicit base delay. A non-positive
// baseDelay uses RetryBaseDelay.
func DoWithBackoff(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, baseDelay time.Duration) (*http.Response, error) {
	if baseDelay <= 0 {
		baseDelay = RetryBaseDelay
	}
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var last *http.Response
	discardLast := func() {
		if last != nil {
			io.Copy(io.Discard, last.Body)
			last.Body.Close()
			last = nil
		}
	}

	resp, err := retry.DoWithData(
		func() (*http.Response, error) {
			discardLast()

			attempt := req.Clone(ctx)
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return nil, retry.Unrecoverable(fmt.Errorf("rewinding request body: %w", err))
				}
				attempt.Body = body
			}

			resp, err := client.Do(attempt)
			if err != nil {
				return nil, retry.Unrecoverable(err)
			}
			if resp.StatusCode == http.StatusTooManyRequests {
				last = resp
				return nil, &rateLimitedError{status: resp.StatusCode}
			}
			return resp, nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(maxRetries+1)),
		retry.Delay(baseDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(func(err error) bool {
			var rl *rateLimitedError
			return errors.As(err, &rl)
		}),
	)
	if err == nil {
		return resp, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		discardLast()
		return nil, ctxErr
	}

	var rl *rateLimitedError
	if errors.As(err, &rl) && last != nil {
		// Exhausted retries: hand the final 429 back to the caller.
		return last, nil
	}
	discardLast()
	return nil, err
}
