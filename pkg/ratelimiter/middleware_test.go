package ratelimiter_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tokenkit/pkg/ratelimiter"
)

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (*ratelimiter.Result, error) {
	return nil, ratelimiter.ErrStoreUnavailable
}

func (failingLimiter) AllowN(context.Context, string, int) (*ratelimiter.Result, error) {
	return nil, ratelimiter.ErrStoreUnavailable
}

func remoteAddr(r *http.Request) string { return r.RemoteAddr }

func TestMiddleware(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)
	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 2, RefillRate: 1, RefillInterval: time.Minute})
	require.NoError(t, err)

	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	handler := ratelimiter.Middleware(limiter, remoteAddr)(ok)

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	rec := do("192.0.2.1:1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("X-RateLimit-Reset"))

	assert.Equal(t, http.StatusOK, do("192.0.2.1:1").Code)

	rec = do("192.0.2.1:1")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, do("192.0.2.2:1").Code)

	t.Run("empty key bypasses", func(t *testing.T) {
		h := ratelimiter.Middleware(failingLimiter{}, func(*http.Request) string { return "" })(ok)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("custom responder", func(t *testing.T) {
		var got error
		h := ratelimiter.Middleware(failingLimiter{}, remoteAddr,
			ratelimiter.WithErrorResponder(func(w http.ResponseWriter, _ *http.Request, _ *ratelimiter.Result, err error) {
				got = err
				w.WriteHeader(http.StatusServiceUnavailable)
			}),
		)(ok)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
		assert.True(t, errors.Is(got, ratelimiter.ErrStoreUnavailable))
	})
}

func TestComposite(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Key", "abc")

	header := func(r *http.Request) string { return r.Header.Get("X-Key") }
	empty := func(*http.Request) string { return "" }
	long := func(*http.Request) string { return strings.Repeat("x", 80) }

	assert.Equal(t, "abc", ratelimiter.Composite(header, empty)(req))
	assert.Equal(t, "abc:abc", ratelimiter.Composite(header, header)(req))
	assert.Empty(t, ratelimiter.Composite(empty)(req))

	hashed := ratelimiter.Composite(header, long)(req)
	assert.NotEmpty(t, hashed)
	assert.LessOrEqual(t, len(hashed), 13)
	assert.Equal(t, hashed, ratelimiter.Composite(header, long)(req))
}
