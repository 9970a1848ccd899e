package app

import "errors"

var (
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrOpenHistory     = errors.New("failed to open history backend")
	ErrOpenRateLimiter = errors.New("failed to open rate limiter")
)
