package toolkit

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/dmitrymomot/tokenkit/binder"
	"github.com/dmitrymomot/tokenkit/handler"
	"github.com/dmitrymomot/tokenkit/pkg/clientip"
	"github.com/dmitrymomot/tokenkit/pkg/jwt"
	"github.com/dmitrymomot/tokenkit/pkg/logger"
	"github.com/dmitrymomot/tokenkit/pkg/ratelimiter"
	"github.com/dmitrymomot/tokenkit/svc/tokens"
)

type options struct {
	log            *slog.Logger
	historyAuth    *jwt.Service
	allowedOrigins []string
	maxBodySize    int64
	limiter        ratelimiter.RateLimiter
}

type Option func(*options)

func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithHistoryAuth requires a bearer token signed for svc on history routes.
func WithHistoryAuth(svc *jwt.Service) Option {
	return func(o *options) { o.historyAuth = svc }
}

// WithAllowedOrigins sets the CORS origins. Defaults to "*".
func WithAllowedOrigins(origins ...string) Option {
	return func(o *options) {
		if len(origins) > 0 {
			o.allowedOrigins = origins
		}
	}
}

// WithMaxBodySize caps JSON request bodies in bytes.
func WithMaxBodySize(n int64) Option {
	return func(o *options) {
		if n > 0 {
			o.maxBodySize = n
		}
	}
}

// WithRateLimit limits /tokens requests per client address.
func WithRateLimit(l ratelimiter.RateLimiter) Option {
	return func(o *options) { o.limiter = l }
}

type api struct {
	svc     *tokens.Service
	log     *slog.Logger
	onError handler.ErrorHandler
}

// Router builds the API routes. Mount it under a version prefix such as /v1.
func Router(svc *tokens.Service, opts ...Option) chi.Router {
	if svc == nil {
		panic("toolkit: router requires a token service")
	}

	o := options{
		log:            logger.Discard(),
		allowedOrigins: []string{"*"},
		maxBodySize:    binder.DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(&o)
	}

	a := &api{
		svc:     svc,
		log:     o.log.With(logger.Component("toolkit")),
		onError: handler.NewErrorHandler(o.log, errorMappers()...),
	}
	bindJSON := binder.JSONWithLimit(o.maxBodySize)
	bindPath := binder.Path(chi.URLParam)

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   o.allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		a.onError(handler.NewContext(w, req), handler.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		a.onError(handler.NewContext(w, req), handler.ErrMethodNotAllowed)
	})

	r.Route("/encodings", func(r chi.Router) {
		r.Get("/", handler.Wrap(a.listEncodings,
			handler.WithErrorHandler[struct{}](a.onError)))
		r.Post("/{scheme}/encode", handler.Wrap(a.encode,
			handler.WithBinders[encodingRequest](bindPath, bindJSON),
			handler.WithErrorHandler[encodingRequest](a.onError)))
		r.Post("/{scheme}/decode", handler.Wrap(a.decode,
			handler.WithBinders[encodingRequest](bindPath, bindJSON),
			handler.WithErrorHandler[encodingRequest](a.onError)))
	})

	r.Route("/tokens", func(r chi.Router) {
		if o.limiter != nil {
			r.Use(ratelimiter.Middleware(o.limiter, clientKey,
				ratelimiter.WithErrorResponder(a.rateLimited)))
		}

		r.Post("/", handler.Wrap(a.generate,
			handler.WithBinders[generateRequest](bindJSON),
			handler.WithErrorHandler[generateRequest](a.onError)))
		r.Post("/decode", handler.Wrap(a.decodeToken,
			handler.WithBinders[decodeTokenRequest](bindJSON),
			handler.WithErrorHandler[decodeTokenRequest](a.onError)))
		r.Post("/verify", handler.Wrap(a.verifyToken,
			handler.WithBinders[verifyTokenRequest](bindJSON),
			handler.WithErrorHandler[verifyTokenRequest](a.onError)))
	})

	r.Route("/history", func(r chi.Router) {
		if o.historyAuth != nil {
			r.Use(jwt.MiddlewareWithConfig(jwt.MiddlewareConfig{
				Service: o.historyAuth,
				OnError: func(w http.ResponseWriter, req *http.Request, err error) {
					a.onError(handler.NewContext(w, req), handler.ErrUnauthorized.Wrap(err))
				},
			}))
		}

		r.Get("/", handler.Wrap(a.listHistory,
			handler.WithBinders[listHistoryRequest](binder.Query()),
			handler.WithErrorHandler[listHistoryRequest](a.onError)))
		r.Delete("/", handler.Wrap(a.clearHistory,
			handler.WithErrorHandler[struct{}](a.onError)))
		r.Delete("/{id}", handler.Wrap(a.deleteHistory,
			handler.WithBinders[recordRequest](bindPath),
			handler.WithErrorHandler[recordRequest](a.onError)))
		r.Get("/{id}/qr", handler.Wrap(a.historyQR,
			handler.WithBinders[qrRequest](bindPath, binder.Query()),
			handler.WithErrorHandler[qrRequest](a.onError)))
	})

	return r
}

// clientKey prefers the address resolved by clientip.Middleware.
func clientKey(r *http.Request) string {
	if ip := clientip.FromContext(r.Context()); ip != "" {
		return ip
	}
	return clientip.GetIP(r, false)
}

func (a *api) rateLimited(w http.ResponseWriter, r *http.Request, _ *ratelimiter.Result, err error) {
	if err != nil {
		a.onError(handler.NewContext(w, r), errRateLimiterUnavailable.Wrap(err))
		return
	}
	a.onError(handler.NewContext(w, r), errRateLimited)
}
