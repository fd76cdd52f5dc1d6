package nvd

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	// RateWindow is the window NVD publishes its limits over.
	RateWindow = 30 * time.Second

	// PublicRequestsPerWindow is the limit without an API key.
	PublicRequestsPerWindow = 5

	// KeyedRequestsPerWindow is the limit with an API key.
	KeyedRequestsPerWindow = 50

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter keeps requests under NVD's published limits. A token bucket
// throttles proactively; a Retry-After from a rejected request pauses the
// next one.
type RateLimiter struct {
	mu         sync.Mutex
	bucket     *rate.Limiter
	blockUntil time.Time
}

// NewRateLimiter creates a limiter sized for keyed or public access.
func NewRateLimiter(hasAPIKey bool) *RateLimiter {
	n := PublicRequestsPerWindow
	if hasAPIKey {
		n = KeyedRequestsPerWindow
	}
	return NewRateLimiterWithLimit(rate.Every(RateWindow/time.Duration(n)), n)
}

// NewRateLimiterWithLimit creates a limiter with an explicit rate and burst.
func NewRateLimiterWithLimit(limit rate.Limit, burst int) *RateLimiter {
	return &RateLimiter{
		bucket: rate.NewLimiter(limit, burst),
	}
}

// Wait blocks until a request may be sent or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	r.mu.Lock()
	blockUntil := r.blockUntil
	r.mu.Unlock()

	if wait := time.Until(blockUntil); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.bucket.Wait(ctx)
}

// CheckResponse returns a RateLimitError for 403 and 429 responses and
// records any Retry-After so the next Wait honours it.
func (r *RateLimiter) CheckResponse(resp *http.Response) *RateLimitError {
	if resp == nil {
		return nil
	}
	if resp.StatusCode != http.StatusTooManyRequests && resp.StatusCode != http.StatusForbidden {
		return nil
	}

	rlErr := &RateLimitError{StatusCode: resp.StatusCode}
	if retryAfter := resp.Header.Get(HeaderRetryAfter); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
			rlErr.RetryAfter = time.Duration(seconds) * time.Second
			r.mu.Lock()
			r.blockUntil = time.Now().Add(rlErr.RetryAfter)
			r.mu.Unlock()
		}
	}
	return rlErr
}

// BlockedUntil returns the time before which Wait will not return.
func (r *RateLimiter) BlockedUntil() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.blockUntil
}
