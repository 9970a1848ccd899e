package pgstore_test

import (
	"context"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tokenkit/pkg/pg"
	"github.com/dmitrymomot/tokenkit/svc/history"
	"github.com/dmitrymomot/tokenkit/svc/history/historytest"
	"github.com/dmitrymomot/tokenkit/svc/history/pgstore"
)

func TestMigrationsEmbedded(t *testing.T) {
	t.Parallel()

	names, err := fs.Glob(pgstore.Migrations(), "*.sql")
	require.NoError(t, err)
	assert.Contains(t, names, "00001_token_history.sql")
}

func TestStore(t *testing.T) {
	url := os.Getenv("TOKENKIT_TEST_PG_URL")
	if url == "" {
		t.Skip("TOKENKIT_TEST_PG_URL not set")
	}

	ctx := context.Background()
	cfg := pg.Config{ConnectionString: url, RetryAttempts: 1, MigrationsTable: "tokenkit_test_migrations"}
	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pg.Migrate(ctx, pool, cfg, pgstore.Migrations(), nil))

	historytest.Run(t, func(t *testing.T) history.Store {
		store := pgstore.New(pool)
		require.NoError(t, store.DeleteAll(ctx))
		t.Cleanup(func() { _ = store.DeleteAll(context.Background()) })
		return store
	})
}
