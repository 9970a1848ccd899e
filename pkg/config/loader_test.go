package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tokenkit/pkg/config"
)

type testConfig struct {
	Addr   string        `env:"HTTP_ADDR" envDefault:":8080"`
	Secret string        `env:"SIGNING_SECRET,required"`
	TTL    time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("defaults and required values", func(t *testing.T) {
		var cfg testConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{
			"SIGNING_SECRET": "s3cret",
		}))
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, "s3cret", cfg.Secret)
		assert.Equal(t, time.Hour, cfg.TTL)
	})

	t.Run("prefix", func(t *testing.T) {
		var cfg testConfig
		err := config.Load(&cfg,
			config.WithPrefix("TOKENKIT_"),
			config.WithEnvironment(map[string]string{
				"TOKENKIT_SIGNING_SECRET": "x",
				"TOKENKIT_TOKEN_TTL":      "90s",
			}),
		)
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, cfg.TTL)
	})

	t.Run("missing required value", func(t *testing.T) {
		var cfg testConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{}))
		require.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("invalid value", func(t *testing.T) {
		var cfg testConfig
		err := config.Load(&cfg, config.WithEnvironment(map[string]string{
			"SIGNING_SECRET": "x",
			"TOKEN_TTL":      "soon",
		}))
		require.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		var cfg *testConfig
		require.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
	})

	t.Run("missing env file", func(t *testing.T) {
		var cfg testConfig
		err := config.Load(&cfg, config.WithEnvFiles(filepath.Join(t.TempDir(), "absent.env")))
		require.ErrorIs(t, err, config.ErrLoadingEnvFile)
	})

	t.Run("must load panics", func(t *testing.T) {
		assert.Panics(t, func() {
			var cfg testConfig
			config.MustLoad(&cfg, config.WithEnvironment(map[string]string{}))
		})
	})
}

func TestLoadEnvFile(t *testing.T) {
	// Mutates the process environment, so it does not run in parallel.
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("CFGTEST_SIGNING_SECRET=from-file\n"), 0o600))
	t.Cleanup(func() { _ = os.Unsetenv("CFGTEST_SIGNING_SECRET") })

	var cfg testConfig
	err := config.Load(&cfg, config.WithEnvFiles(path), config.WithPrefix("CFGTEST_"))
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Secret)
}
