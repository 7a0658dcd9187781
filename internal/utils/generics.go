package utils

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"
)

type RetryConfig struct {
	MaxRetries int
	MaxJitter  time.Duration
	Delay      time.Duration
}

// Extract retry delay from error on Google API.
// gRPC errors carry RetryInfo, REST errors may carry a Retry-After header.
func extractRetryDelay(err error) (time.Duration, bool) {

	if err == nil {
		return 0, false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		seconds, convErr := strconv.Atoi(apiErr.Header.Get("Retry-After"))
		if convErr != nil || seconds < 0 {
			return 0, false
		}
		return time.Duration(seconds) * time.Second, true
	}

	st, ok := status.FromError(err)
	if !ok {
		return 0, false
	}

	// The Details() method returns the structured error details
	for _, detail := range st.Details() {
		if retryInfo, ok := detail.(*errdetails.RetryInfo); ok {
			if retryInfo.RetryDelay != nil {
				return retryInfo.RetryDelay.AsDuration(), true
			}
		}
	}

	return 0, false
}

// Client errors other than rate limiting won't go away on retry
func isPermanent(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}

	switch apiErr.Code {
	case http.StatusTooManyRequests:
		return false
	case http.StatusForbidden:
		// Per-user rate limits come back as 403
		for _, item := range apiErr.Errors {
			if item.Reason == "rateLimitExceeded" || item.Reason == "userRateLimitExceeded" {
				return false
			}
		}
		return true
	}

	return apiErr.Code >= 400 && apiErr.Code < 500
}

// Retry a function
func Retry[T any](
	ctx context.Context,
	rc *RetryConfig,
	callable func() (T, error),
) (T, error) {

	var (
		zero      T
		lastError error
	)

	// Avoid zero or negative maxRetries
	rc.MaxRetries = max(rc.MaxRetries, 1)

	for i := range rc.MaxRetries {

		data, err := callable()
		if err == nil {
			return data, err
		}

		if isPermanent(err) {
			return zero, err
		}

		// If this is the last iteration break the loop
		lastError = err
		if i+1 == rc.MaxRetries {
			break
		}

		// Calculate the backoff (2^i) + jitter
		jitter := time.Duration(rand.Float64() * float64(rc.MaxJitter)) // #nosec G404
		sleepTime := rc.Delay*time.Duration(math.Pow(2, float64(i))) + jitter

		// Try to extract a delay value from the error
		if retryDelay, ok := extractRetryDelay(lastError); ok {
			if retryDelay > sleepTime {
				return zero, fmt.Errorf(
					"API requested excessive wait: %v; %w;",
					retryDelay, lastError,
				)
			}
			sleepTime = retryDelay
		}

		// Wait for either the sleep time or context to end
		select {
		case <-ctx.Done():
			return zero, errors.Join(ctx.Err(), lastError)
		case <-time.After(sleepTime):
		}
	}

	return zero, fmt.Errorf("%d max retries error; %w", rc.MaxRetries, lastError)
}
