package ratelimiter

import (
	"fmt"
	"time"
)

// Result contains the outcome of a rate limit check.
type Result struct {
	Limit     int       // Bucket capacity
	Remaining int       // Tokens left; negative when the request was denied
	ResetAt   time.Time // Next refill
}

// Allowed reports whether the request fit into the bucket.
func (r *Result) Allowed() bool {
	return r.Remaining >= 0
}

// RetryAfter returns how long to wait before retrying, zero when allowed.
func (r *Result) RetryAfter() time.Duration {
	if r.Allowed() {
		return 0
	}
	return max(0, time.Until(r.ResetAt))
}

// Config defines the token bucket.
type Config struct {
	Capacity       int           `env:"RATE_LIMIT_CAPACITY" envDefault:"60"`        // Capacity is the burst size.
	RefillRate     int           `env:"RATE_LIMIT_REFILL_RATE" envDefault:"1"`      // RefillRate is the number of tokens added per interval.
	RefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL" envDefault:"1s"` // RefillInterval is how often tokens are added.
}

func (c Config) validate() error {
	if c.Capacity <= 0 {
		return fmt.Errorf("%w: capacity must be positive, got %d", ErrInvalidConfig, c.Capacity)
	}
	if c.RefillRate <= 0 {
		return fmt.Errorf("%w: refill rate must be positive, got %d", ErrInvalidConfig, c.RefillRate)
	}
	if c.RefillInterval <= 0 {
		return fmt.Errorf("%w: refill interval must be positive, got %v", ErrInvalidConfig, c.RefillInterval)
	}
	return nil
}

// fullRefill is the time an empty bucket needs to fill up again.
func (c Config) fullRefill() time.Duration {
	intervals := (c.Capacity + c.RefillRate - 1) / c.RefillRate
	return time.Duration(intervals) * c.RefillInterval
}

// refill applies the intervals elapsed since last and returns the new token
// count and refill time. Elapsed intervals are capped so a long idle period
// cannot overflow.
func (c Config) refill(tokens int, last, now time.Time) (int, time.Time) {
	elapsed := now.Sub(last)
	if elapsed < c.RefillInterval {
		return tokens, last
	}
	maxIntervals := int64(c.Capacity/c.RefillRate + 1)
	intervals := int(min(int64(elapsed/c.RefillInterval), maxIntervals))
	return min(tokens+intervals*c.RefillRate, c.Capacity), now
}
