// Package app wires configuration, history backend, token service and HTTP
// server into the tokenkit service.
package app

import (
	"context"
	"log/slog"

	"github.com/dmitrymomot/tokenkit/pkg/clientip"
	"github.com/dmitrymomot/tokenkit/pkg/httpserver"
	"github.com/dmitrymomot/tokenkit/pkg/logger"
	"github.com/dmitrymomot/tokenkit/pkg/requestid"
	"github.com/dmitrymomot/tokenkit/svc/tokens"
)

// NewLogger builds the service logger from cfg. An unparsable LOG_LEVEL is
// ignored here and reported by Validate.
func NewLogger(cfg Config) *slog.Logger {
	opts := []logger.Option{
		logger.WithEnvironment(cfg.Env, cfg.Service),
		logger.WithContextExtractors(requestid.LoggerExtractor(), clientip.LoggerExtractor()),
	}
	if l, err := cfg.level(); err == nil && l != nil {
		opts = append(opts, logger.WithLevel(*l))
	}
	return logger.New(opts...)
}

// Run serves the API until ctx is cancelled or a termination signal arrives.
func Run(ctx context.Context, cfg Config, log *slog.Logger) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	backend, err := OpenHistory(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer backend.Close()
	log.InfoContext(ctx, "history backend ready", logger.Backend(backend.Name))

	limiter, closeLimiter, err := OpenRateLimiter(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeLimiter()

	router, err := Router(cfg, Deps{
		Service: tokens.New(tokens.WithStore(backend.Store), tokens.WithLogger(log)),
		Logger:  log,
		Checks:  map[string]httpserver.CheckFunc{"history": backend.Check},
		Limiter: limiter,
	})
	if err != nil {
		return err
	}

	return httpserver.New(cfg.HTTP, log).Run(ctx, router)
}
