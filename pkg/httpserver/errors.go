package httpserver

import "errors"

var (
	ErrStart          = errors.New("httpserver: failed to start")
	ErrAlreadyRunning = errors.New("httpserver: server already running")
	ErrShutdown       = errors.New("httpserver: graceful shutdown failed")
)
