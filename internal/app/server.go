package app

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/tokenkit/modules/toolkit"
	"github.com/dmitrymomot/tokenkit/pkg/clientip"
	"github.com/dmitrymomot/tokenkit/pkg/httpserver"
	"github.com/dmitrymomot/tokenkit/pkg/jwt"
	"github.com/dmitrymomot/tokenkit/pkg/logger"
	"github.com/dmitrymomot/tokenkit/pkg/ratelimiter"
	"github.com/dmitrymomot/tokenkit/pkg/requestid"
	"github.com/dmitrymomot/tokenkit/svc/tokens"
)

// Deps are the collaborators Router wires into the HTTP surface.
type Deps struct {
	Service *tokens.Service
	Logger  *slog.Logger
	Checks  map[string]httpserver.CheckFunc
	Limiter ratelimiter.RateLimiter // optional
}

// Router assembles the HTTP surface: probes, metrics and the /v1 API.
func Router(cfg Config, deps Deps) (http.Handler, error) {
	log := deps.Logger
	if log == nil {
		log = logger.Discard()
	}

	opts := []toolkit.Option{
		toolkit.WithLogger(log),
		toolkit.WithAllowedOrigins(cfg.AllowedOrigins...),
		toolkit.WithMaxBodySize(cfg.MaxBodySize),
	}
	if cfg.HistoryAuthSecret != "" {
		auth, err := jwt.NewFromString(cfg.HistoryAuthSecret)
		if err != nil {
			return nil, err
		}
		opts = append(opts, toolkit.WithHistoryAuth(auth))
	}
	if deps.Limiter != nil {
		opts = append(opts, toolkit.WithRateLimit(deps.Limiter))
	}

	r := chi.NewRouter()
	r.Use(clientip.Middleware(cfg.TrustProxy))
	r.Use(requestid.Middleware)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(log))

	r.Get("/livez", httpserver.LivenessHandler())
	r.Get("/readyz", httpserver.ReadinessHandler(log, deps.Checks))
	r.Handle("/metrics", promhttp.Handler())
	r.Mount("/v1", toolkit.Router(deps.Service, opts...))

	return r, nil
}

func requestLogger(log *slog.Logger) func(http.Handler) http.Handler {
	log = log.With(logger.Component("http"))
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			log.InfoContext(r.Context(), "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}
