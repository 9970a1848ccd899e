package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type options struct {
	files       []string
	prefix      string
	environment map[string]string
}

// Option customises Load.
type Option func(*options)

// WithEnvFiles loads the given .env files instead of the default one.
// Missing files are an error.
func WithEnvFiles(files ...string) Option {
	return func(o *options) { o.files = append(o.files, files...) }
}

// WithPrefix prepends prefix to every variable name, e.g. "TOKENKIT_".
func WithPrefix(prefix string) Option {
	return func(o *options) { o.prefix = prefix }
}

// WithEnvironment parses from the given map instead of the process
// environment and skips .env loading. Intended for tests.
func WithEnvironment(vars map[string]string) Option {
	return func(o *options) { o.environment = vars }
}

// Load populates v from the environment.
func Load[T any](v *T, opts ...Option) error {
	if v == nil {
		return ErrNilPointer
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	if o.environment == nil {
		if len(o.files) > 0 {
			if err := godotenv.Load(o.files...); err != nil {
				return errors.Join(ErrLoadingEnvFile, err)
			}
		} else {
			// The default .env file is optional.
			_ = godotenv.Load()
		}
	}

	if err := env.ParseWithOptions(v, env.Options{
		Prefix:      o.prefix,
		Environment: o.environment,
	}); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}

	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T, opts ...Option) {
	if err := Load(v, opts...); err != nil {
		panic(fmt.Sprintf("Failed to load required configuration: %v", err))
	}
}
