// Package historytest holds behaviour tests shared by every history.Store.
package historytest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tokenkit/pkg/jwt"
	"github.com/dmitrymomot/tokenkit/svc/history"
)

// Factory returns an empty store. Cleanup is registered on t.
type Factory func(t *testing.T) history.Store

// Run exercises store semantics against stores built by newStore.
// Subtests run sequentially because external backends may share state.
func Run(t *testing.T, newStore Factory) {
	t.Helper()

	t.Run("save and get", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		exp := time.Now().Add(time.Hour).UTC().Truncate(time.Second)
		rec := history.Record{
			ID:        uuid.New(),
			Token:     "h.p.s",
			Type:      history.TypeAccess,
			Payload:   jwt.Payload{"sub": "42", "admin": true, "n": 7.5},
			ExpiresAt: &exp,
		}
		require.NoError(t, store.Save(ctx, rec))

		got, err := store.Get(ctx, rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
		assert.Equal(t, "h.p.s", got.Token)
		assert.Equal(t, history.TypeAccess, got.Type)
		assert.Equal(t, "42", got.Payload["sub"])
		assert.Equal(t, true, got.Payload["admin"])
		assert.EqualValues(t, 7.5, got.Payload["n"])
		require.NotNil(t, got.ExpiresAt)
		assert.True(t, exp.Equal(*got.ExpiresAt))
		assert.False(t, got.CreatedAt.IsZero())
	})

	t.Run("save assigns id and keeps nil expiry", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx, history.Record{Token: "a.b.c", Type: history.TypeRefresh}))

		list, err := store.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.NotEqual(t, uuid.Nil, list[0].ID)
		assert.Nil(t, list[0].ExpiresAt)
		assert.NotNil(t, list[0].Payload)
	})

	t.Run("save rejects invalid records", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		err := store.Save(ctx, history.Record{Type: history.TypeAccess})
		require.ErrorIs(t, err, history.ErrEmptyToken)

		err = store.Save(ctx, history.Record{Token: "a.b.c", Type: "session"})
		require.ErrorIs(t, err, history.ErrInvalidType)

		list, err := store.List(ctx, 0)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("list is newest first and limited", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
		records := make([]history.Record, 0, 25)
		for i := range 25 {
			records = append(records, history.Record{
				Token:     "tok" + string(rune('a'+i)),
				Type:      history.TypeAccess,
				CreatedAt: base.Add(time.Duration(i) * time.Second),
			})
		}
		require.NoError(t, store.Save(ctx, records...))

		list, err := store.List(ctx, 0)
		require.NoError(t, err)
		require.Len(t, list, history.DefaultListLimit)
		assert.Equal(t, "toky", list[0].Token)
		for i := 1; i < len(list); i++ {
			assert.False(t, list[i].CreatedAt.After(list[i-1].CreatedAt))
		}

		list, err = store.List(ctx, 3)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, []string{"toky", "tokx", "tokw"}, []string{list[0].Token, list[1].Token, list[2].Token})
	})

	t.Run("delete", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		rec := history.Record{ID: uuid.New(), Token: "x.y.z", Type: history.TypeAccess}
		require.NoError(t, store.Save(ctx, rec))
		require.NoError(t, store.Delete(ctx, rec.ID))

		_, err := store.Get(ctx, rec.ID)
		require.ErrorIs(t, err, history.ErrNotFound)
		require.ErrorIs(t, store.Delete(ctx, rec.ID), history.ErrNotFound)
	})

	t.Run("delete all", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.Save(ctx,
			history.Record{Token: "1.1.1", Type: history.TypeAccess},
			history.Record{Token: "2.2.2", Type: history.TypeRefresh},
		))
		require.NoError(t, store.DeleteAll(ctx))
		require.NoError(t, store.DeleteAll(ctx))

		list, err := store.List(ctx, 10)
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("concurrent saves", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		var wg sync.WaitGroup
		for range 10 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, store.Save(ctx, history.Record{Token: "c.c.c", Type: history.TypeAccess}))
			}()
		}
		wg.Wait()

		list, err := store.List(ctx, history.MaxListLimit)
		require.NoError(t, err)
		assert.Len(t, list, 10)
	})
}
