package tokens_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tokenkit/pkg/jwt"
	"github.com/dmitrymomot/tokenkit/svc/history"
	"github.com/dmitrymomot/tokenkit/svc/tokens"
)

type failingStore struct {
	history.Store
}

func (failingStore) Save(context.Context, ...history.Record) error {
	return history.ErrStorage
}

func fixedEngine(now time.Time) *jwt.Engine {
	return jwt.NewEngine(jwt.WithClock(func() time.Time { return now }))
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	now := time.Unix(1_700_000_000, 0)

	t.Run("creates a pair and records it", func(t *testing.T) {
		t.Parallel()
		store := history.NewMemoryStore()
		svc := tokens.New(tokens.WithStore(store), tokens.WithEngine(fixedEngine(now)))
		ctx := context.Background()

		pair, err := svc.Generate(ctx, tokens.GenerateRequest{
			Payload:   jwt.Payload{"sub": "42"},
			Secret:    "s3cret",
			ExpiresIn: time.Hour,
		})
		require.NoError(t, err)
		require.NotNil(t, pair.AccessExpiresAt)
		assert.Equal(t, now.Add(time.Hour).Unix(), pair.AccessExpiresAt.Unix())
		require.NotNil(t, pair.RefreshExpiresAt)
		assert.Equal(t, now.Add(24*time.Hour).Unix(), pair.RefreshExpiresAt.Unix())

		records, err := svc.History(ctx, 0)
		require.NoError(t, err)
		require.Len(t, records, 2)

		byType := map[history.Type]history.Record{}
		for _, r := range records {
			byType[r.Type] = r
		}
		assert.Equal(t, pair.AccessToken, byType[history.TypeAccess].Token)
		assert.Equal(t, pair.RefreshToken, byType[history.TypeRefresh].Token)
	})

	t.Run("requires a secret", func(t *testing.T) {
		t.Parallel()
		_, err := tokens.New().Generate(context.Background(), tokens.GenerateRequest{Payload: jwt.Payload{}})
		require.ErrorIs(t, err, tokens.ErrMissingSecret)
	})

	t.Run("rejects nested payloads", func(t *testing.T) {
		t.Parallel()
		_, err := tokens.New().Generate(context.Background(), tokens.GenerateRequest{
			Payload: jwt.Payload{"roles": []string{"admin"}},
			Secret:  "k",
		})
		require.ErrorIs(t, err, jwt.ErrInvalidPayload)
	})

	t.Run("history failure is not fatal", func(t *testing.T) {
		t.Parallel()
		svc := tokens.New(tokens.WithStore(failingStore{Store: history.NewMemoryStore()}))
		pair, err := svc.Generate(context.Background(), tokens.GenerateRequest{Payload: jwt.Payload{"a": 1}, Secret: "k"})
		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.Nil(t, pair.AccessExpiresAt)
	})

	t.Run("provider failure propagates", func(t *testing.T) {
		t.Parallel()
		boom := errors.New("hsm offline")
		engine := jwt.NewEngine(jwt.WithProvider(jwt.ProviderFunc(func(context.Context, []byte, []byte) ([]byte, error) {
			return nil, boom
		})))
		_, err := tokens.New(tokens.WithEngine(engine)).Generate(context.Background(), tokens.GenerateRequest{Secret: "k"})
		require.ErrorIs(t, err, jwt.ErrProviderFailure)
		require.ErrorIs(t, err, boom)
	})
}

func TestDecode(t *testing.T) {
	t.Parallel()

	svc := tokens.New()
	token, err := jwt.Create(jwt.Payload{"sub": "1"}, "k", 0)
	require.NoError(t, err)

	decoded, err := svc.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "HS256", decoded.Header.Algorithm)
	assert.Equal(t, "1", decoded.Payload["sub"])

	_, err = svc.Decode("not-a-token")
	require.ErrorIs(t, err, tokens.ErrMalformedToken)
}

func TestVerify(t *testing.T) {
	t.Parallel()

	svc := tokens.New()
	ctx := context.Background()
	token, err := jwt.Create(jwt.Payload{"sub": "1"}, "right", time.Hour)
	require.NoError(t, err)

	valid, err := svc.Verify(ctx, token, "right")
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = svc.Verify(ctx, token, "wrong")
	require.NoError(t, err)
	assert.False(t, valid)

	valid, err = svc.Verify(ctx, "a.b", "right")
	require.NoError(t, err)
	assert.False(t, valid)

	_, err = svc.Verify(ctx, token, "")
	require.ErrorIs(t, err, tokens.ErrMissingSecret)
}

func TestHistoryManagement(t *testing.T) {
	t.Parallel()

	svc := tokens.New()
	ctx := context.Background()

	_, err := svc.Generate(ctx, tokens.GenerateRequest{Payload: jwt.Payload{"n": 1}, Secret: "k"})
	require.NoError(t, err)

	records, err := svc.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, records, 2)

	got, err := svc.HistoryRecord(ctx, records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, records[0].Token, got.Token)

	require.NoError(t, svc.DeleteHistory(ctx, records[0].ID))
	require.ErrorIs(t, svc.DeleteHistory(ctx, records[0].ID), history.ErrNotFound)
	require.ErrorIs(t, svc.DeleteHistory(ctx, uuid.New()), history.ErrNotFound)

	require.NoError(t, svc.ClearHistory(ctx))
	records, err = svc.History(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func counter(t *testing.T, name, label, value string) float64 {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if lp.GetName() == label && lp.GetValue() == value {
					return m.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

// Not parallel: counters are process-wide.
func TestMetrics(t *testing.T) {
	svc := tokens.New()
	ctx := context.Background()

	access := counter(t, "tokenkit_tokens_generated_total", "type", "access")
	refresh := counter(t, "tokenkit_tokens_generated_total", "type", "refresh")
	valid := counter(t, "tokenkit_token_verifications_total", "result", "valid")
	invalid := counter(t, "tokenkit_token_verifications_total", "result", "invalid")
	malformed := counter(t, "tokenkit_token_decodes_total", "result", "malformed")

	pair, err := svc.Generate(ctx, tokens.GenerateRequest{Secret: "k"})
	require.NoError(t, err)
	_, err = svc.Verify(ctx, pair.AccessToken, "k")
	require.NoError(t, err)
	_, err = svc.Verify(ctx, pair.AccessToken, "other")
	require.NoError(t, err)
	_, err = svc.Decode("garbage")
	require.Error(t, err)

	assert.Equal(t, access+1, counter(t, "tokenkit_tokens_generated_total", "type", "access"))
	assert.Equal(t, refresh+1, counter(t, "tokenkit_tokens_generated_total", "type", "refresh"))
	assert.Equal(t, valid+1, counter(t, "tokenkit_token_verifications_total", "result", "valid"))
	assert.Equal(t, invalid+1, counter(t, "tokenkit_token_verifications_total", "result", "invalid"))
	assert.Equal(t, malformed+1, counter(t, "tokenkit_token_decodes_total", "result", "malformed"))
}
