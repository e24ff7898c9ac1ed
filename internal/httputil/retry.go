// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP helpers used to fetch remote corpora.
package httputil

import (
	"context"
	"io"
	"math"
	"net/http"
	"strconv"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

// maxRetryAfter caps a server-supplied Retry-After so a misconfigured
// source cannot stall startup indefinitely.
const maxRetryAfter = 2 * time.Minute

const defaultMaxRetries = 4

// Retryable reports whether a response status is worth retrying: rate
// limiting and the transient gateway errors static file hosts return
// while a corpus is being republished.
func Retryable(status int) bool {
	switch status {
	case http.StatusTooManyRequests,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// DoWithRetry executes an HTTP request and retries retryable statuses with
// exponential backoff starting at RetryBaseDelay and doubling each
// attempt. A Retry-After header given in seconds overrides the computed
// delay.
//
// When maxRetries is 0 the default (4) is used. The body of a retried
// response is drained and closed before sleeping. If the context is
// cancelled during a backoff wait the function returns ctx.Err(). After
// exhausting retries the last response is returned so the caller can
// inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff(attempt, resp.Header.Get("Retry-After"))):
		}
	}
}

func backoff(attempt int, retryAfter string) time.Duration {
	if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
		return min(time.Duration(secs)*time.Second, maxRetryAfter)
	}
	return time.Duration(math.Pow(2, float64(attempt))) * RetryBaseDelay
}
