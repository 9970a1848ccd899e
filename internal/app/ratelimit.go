package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/tokenkit/pkg/logger"
	"github.com/dmitrymomot/tokenkit/pkg/ratelimiter"
	"github.com/dmitrymomot/tokenkit/pkg/redis"
)

// OpenRateLimiter builds the token endpoint limiter. It returns a nil
// limiter when rate limiting is disabled. The close func is non-nil whenever
// err is nil.
func OpenRateLimiter(ctx context.Context, cfg Config, log *slog.Logger) (ratelimiter.RateLimiter, func(), error) {
	if !cfg.RateLimitEnabled {
		return nil, func() {}, nil
	}

	var (
		store   ratelimiter.Store
		closeFn func()
	)
	switch strings.ToLower(cfg.RateLimitStore) {
	case BackendRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, errors.Join(ErrOpenRateLimiter, err)
		}
		prefix := ""
		if cfg.Redis.KeyPrefix != "" {
			prefix = cfg.Redis.KeyPrefix + ":ratelimit"
		}
		store = ratelimiter.NewRedisStore(client, prefix)
		closeFn = func() {
			if err := client.Close(); err != nil {
				log.Error("failed to close redis client", logger.Error(err))
			}
		}
	default:
		mem := ratelimiter.NewMemoryStore()
		store, closeFn = mem, mem.Close
	}

	limiter, err := ratelimiter.NewBucket(store, cfg.RateLimit)
	if err != nil {
		closeFn()
		return nil, nil, errors.Join(ErrOpenRateLimiter, err)
	}
	return limiter, closeFn, nil
}
