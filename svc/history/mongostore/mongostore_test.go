package mongostore_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tokenkit/pkg/mongo"
	"github.com/dmitrymomot/tokenkit/svc/history"
	"github.com/dmitrymomot/tokenkit/svc/history/historytest"
	"github.com/dmitrymomot/tokenkit/svc/history/mongostore"
)

func TestStore(t *testing.T) {
	url := os.Getenv("TOKENKIT_TEST_MONGO_URL")
	if url == "" {
		t.Skip("TOKENKIT_TEST_MONGO_URL not set")
	}

	ctx := context.Background()
	client, err := mongo.Connect(ctx, mongo.Config{ConnectionURL: url, RetryAttempts: 1})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	db := client.Database("tokenkit_test")
	historytest.Run(t, func(t *testing.T) history.Store {
		name := "history_" + uuid.NewString()
		store, err := mongostore.New(ctx, db, name)
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Collection(name).Drop(context.Background()) })
		return store
	})
}
