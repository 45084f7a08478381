// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RetryBackoff is the fixed pause between attempts. Tests override this
// to avoid real sleeps.
var RetryBackoff = 2 * time.Second

const defaultMaxRetries = 3

// retryable reports whether a status code is worth another attempt.
// Client errors other than 429 are final: the document will not change.
func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

// DoWithRetry executes an HTTP request and retries transport failures and
// retryable status codes (429, 5xx) with a fixed backoff. After maxRetries
// attempts the caller receives the last error and is expected to skip the
// unit, never to abort the enclosing crawl.
//
// When maxRetries is 0 the default (3) is used. The response body of a
// failed attempt is drained and closed before sleeping. If the context is
// cancelled during a backoff wait the function returns ctx.Err().
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	var lastErr error
	for attempt := 1; ; attempt++ {
		attemptReq := req.Clone(ctx)
		if attempt > 1 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return nil, fmt.Errorf("rewinding request body: %w", err)
			}
			attemptReq.Body = body
		}
		resp, err := client.Do(attemptReq)
		if err == nil && !retryable(resp.StatusCode) {
			return resp, nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("HTTP %d from %s", resp.StatusCode, req.URL)
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
		}

		if attempt >= maxRetries {
			return nil, fmt.Errorf("after %d attempts: %w", attempt, lastErr)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(RetryBackoff):
		}
	}
}
