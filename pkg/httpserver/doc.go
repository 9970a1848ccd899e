// Package httpserver runs an http.Handler with graceful shutdown and exposes
// liveness and readiness handlers.
//
//	srv := httpserver.New(cfg, log)
//	if err := srv.Run(ctx, router); err != nil {
//	    log.Error("server stopped", logger.Error(err))
//	}
//
// Run blocks until ctx is cancelled, SIGINT/SIGTERM is received or the
// listener fails, then drains in-flight requests for at most
// Config.ShutdownTimeout.
package httpserver
