package nvd

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoBaseURL indicates the client was configured without an endpoint.
var ErrNoBaseURL = errors.New("nvd: base URL is required")

// RateLimitError is the cause attached to a TransportError when NVD
// answers 403 or 429 and asks the caller to back off.
type RateLimitError struct {
	StatusCode int
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("nvd: rate limited (%d), retry after %s", e.StatusCode, e.RetryAfter)
	}
	return fmt.Sprintf("nvd: rate limited (%d)", e.StatusCode)
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var rateLimitErr *RateLimitError
	return errors.As(err, &rateLimitErr)
}
