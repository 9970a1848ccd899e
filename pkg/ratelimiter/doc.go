// Package ratelimiter provides token bucket rate limiting with in-memory and
// Redis stores plus HTTP middleware.
//
// A bucket holds up to Capacity tokens and regains RefillRate tokens every
// RefillInterval. Each request consumes one token; a request that finds too
// few tokens is denied without draining the bucket further.
//
//	store := ratelimiter.NewMemoryStore()
//	defer store.Close()
//
//	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       60,
//		RefillRate:     1,
//		RefillInterval: time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	r.Use(ratelimiter.Middleware(limiter, keyFunc))
//
// The middleware sets X-RateLimit-Limit, X-RateLimit-Remaining and
// X-RateLimit-Reset on every response and Retry-After on denied ones.
package ratelimiter
