package app

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/tokenkit/pkg/httpserver"
	"github.com/dmitrymomot/tokenkit/pkg/mongo"
	"github.com/dmitrymomot/tokenkit/pkg/pg"
	"github.com/dmitrymomot/tokenkit/pkg/ratelimiter"
	"github.com/dmitrymomot/tokenkit/pkg/redis"
)

// History backends selectable with HISTORY_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendMongo    = "mongo"
)

// Config is the service configuration, loaded from the environment.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Service  string `env:"APP_NAME" envDefault:"tokenkit"`
	LogLevel string `env:"LOG_LEVEL"` // Overrides the level implied by Env when set.

	HistoryBackend    string   `env:"HISTORY_BACKEND" envDefault:"memory"`
	HistoryAuthSecret string   `env:"HISTORY_AUTH_SECRET"`
	AllowedOrigins    []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	MaxBodySize       int64    `env:"HTTP_MAX_BODY_SIZE" envDefault:"1048576"`
	TrustProxy        bool     `env:"TRUST_PROXY_HEADERS" envDefault:"false"`

	RateLimitEnabled bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`
	RateLimitStore   string `env:"RATE_LIMIT_STORE" envDefault:"memory"` // memory or redis
	RateLimit        ratelimiter.Config

	HTTP  httpserver.Config
	PG    pg.Config
	Redis redis.Config
	Mongo mongo.Config
}

// Validate checks cross-field constraints the env tags cannot express.
func (c Config) Validate() error {
	if _, err := c.level(); err != nil {
		return fmt.Errorf("%w: LOG_LEVEL: %v", ErrInvalidConfig, err)
	}

	if c.RateLimitEnabled {
		switch strings.ToLower(c.RateLimitStore) {
		case BackendMemory:
		case BackendRedis:
			if c.Redis.ConnectionURL == "" {
				return fmt.Errorf("%w: REDIS_URL is required for the redis rate limit store", ErrInvalidConfig)
			}
		default:
			return fmt.Errorf("%w: unknown RATE_LIMIT_STORE %q", ErrInvalidConfig, c.RateLimitStore)
		}
	}

	switch strings.ToLower(c.HistoryBackend) {
	case BackendMemory:
	case BackendPostgres:
		if c.PG.ConnectionString == "" {
			return fmt.Errorf("%w: PG_CONN_URL is required for the postgres backend", ErrInvalidConfig)
		}
	case BackendRedis:
		if c.Redis.ConnectionURL == "" {
			return fmt.Errorf("%w: REDIS_URL is required for the redis backend", ErrInvalidConfig)
		}
	case BackendMongo:
		if c.Mongo.ConnectionURL == "" {
			return fmt.Errorf("%w: MONGODB_URL is required for the mongo backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown HISTORY_BACKEND %q", ErrInvalidConfig, c.HistoryBackend)
	}
	return nil
}

func (c Config) level() (*slog.Level, error) {
	if c.LogLevel == "" {
		return nil, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return nil, err
	}
	return &l, nil
}
