// Package config populates configuration structs from environment variables.
//
// It wraps github.com/joho/godotenv, which loads optional .env files into the
// process environment, and github.com/caarlos0/env/v11, which parses the
// environment into a struct using `env` and `envDefault` field tags.
//
// # Usage
//
//	type Config struct {
//	    Addr   string        `env:"HTTP_ADDR" envDefault:":8080"`
//	    Secret string        `env:"SIGNING_SECRET,required"`
//	    TTL    time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg, config.WithEnvFiles(".env.local")); err != nil {
//	    log.Fatal(err)
//	}
//
// Without WithEnvFiles a .env file in the working directory is loaded if it
// exists. Variables already present in the process environment always win.
//
// # Error Handling
//
// Failures are reported with the sentinels ErrNilPointer, ErrLoadingEnvFile
// and ErrParsingConfig, joined with the underlying cause.
package config
