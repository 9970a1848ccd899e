package toolkit_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tokenkit/handler"
	"github.com/dmitrymomot/tokenkit/modules/toolkit"
	"github.com/dmitrymomot/tokenkit/pkg/jwt"
	"github.com/dmitrymomot/tokenkit/pkg/ratelimiter"
	"github.com/dmitrymomot/tokenkit/svc/history"
	"github.com/dmitrymomot/tokenkit/svc/tokens"
)

func newServer(t *testing.T, opts ...toolkit.Option) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.Mount("/v1", toolkit.Router(tokens.New(), opts...))
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string, headers ...string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf bytes.Buffer
	_, err = buf.ReadFrom(resp.Body)
	require.NoError(t, err)
	return resp, buf.Bytes()
}

func errorKey(t *testing.T, body []byte) string {
	t.Helper()
	var e handler.ErrorBody
	require.NoError(t, json.Unmarshal(body, &e))
	return e.Error
}

func TestEncodings(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	t.Run("list", func(t *testing.T) {
		t.Parallel()
		resp, body := do(t, http.MethodGet, srv.URL+"/v1/encodings", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"schemes":["base64","base64url","base32","hex"]}`, string(body))
	})

	t.Run("encode", func(t *testing.T) {
		t.Parallel()
		cases := map[string]string{
			"base64":    "aGk/Pz4=",
			"base64url": "aGk_Pz4",
			"base32":    "NBUT6PZ6",
			"HEX":       "68693f3f3e",
		}
		for scheme, want := range cases {
			resp, body := do(t, http.MethodPost, srv.URL+"/v1/encodings/"+scheme+"/encode", `{"input":"hi??>"}`)
			require.Equal(t, http.StatusOK, resp.StatusCode, scheme)
			var out struct {
				Output string `json:"output"`
			}
			require.NoError(t, json.Unmarshal(body, &out))
			assert.Equal(t, want, out.Output, scheme)
		}
	})

	t.Run("decode", func(t *testing.T) {
		t.Parallel()
		resp, body := do(t, http.MethodPost, srv.URL+"/v1/encodings/hex/decode", `{"input":"48 65 6c 6c 6f"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"scheme":"hex","output":"Hello"}`, string(body))
	})

	t.Run("decode binary", func(t *testing.T) {
		t.Parallel()
		resp, body := do(t, http.MethodPost, srv.URL+"/v1/encodings/base64/decode", `{"input":"//79"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"scheme":"base64","output":"fffefd","binary":true}`, string(body))
	})

	t.Run("invalid input", func(t *testing.T) {
		t.Parallel()
		resp, body := do(t, http.MethodPost, srv.URL+"/v1/encodings/hex/decode", `{"input":"abc"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "invalid_input", errorKey(t, body))
	})

	t.Run("unknown scheme", func(t *testing.T) {
		t.Parallel()
		resp, body := do(t, http.MethodPost, srv.URL+"/v1/encodings/rot13/encode", `{"input":"x"}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "unknown_scheme", errorKey(t, body))
	})
}

func TestTokens(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	var pair jwt.TokenPair
	resp, body := do(t, http.MethodPost, srv.URL+"/v1/tokens", `{"payload":{"sub":"42","admin":true},"secret":"s3cret","expires_in":3600}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	require.NoError(t, json.Unmarshal(body, &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)
	require.NotNil(t, pair.AccessExpiresAt)
	assert.WithinDuration(t, time.Now().Add(time.Hour), *pair.AccessExpiresAt, 5*time.Second)
	assert.Equal(t, "refresh", pair.RefreshPayload["type"])

	t.Run("decode", func(t *testing.T) {
		t.Parallel()
		resp, body := do(t, http.MethodPost, srv.URL+"/v1/tokens/decode", `{"token":"`+pair.AccessToken+`"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var decoded jwt.DecodedToken
		require.NoError(t, json.Unmarshal(body, &decoded))
		assert.Equal(t, jwt.Header{Algorithm: "HS256", Type: "JWT"}, decoded.Header)
		assert.Equal(t, "42", decoded.Payload["sub"])
	})

	t.Run("decode malformed", func(t *testing.T) {
		t.Parallel()
		resp, body := do(t, http.MethodPost, srv.URL+"/v1/tokens/decode", `{"token":"a.b"}`)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		assert.Equal(t, "malformed_token", errorKey(t, body))
	})

	t.Run("verify", func(t *testing.T) {
		t.Parallel()
		resp, body := do(t, http.MethodPost, srv.URL+"/v1/tokens/verify", `{"token":"`+pair.AccessToken+`","secret":"s3cret"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"valid":true,"expired":false}`, string(body))

		resp, body = do(t, http.MethodPost, srv.URL+"/v1/tokens/verify", `{"token":"`+pair.AccessToken+`","secret":"wrong"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"valid":false,"expired":false}`, string(body))

		resp, body = do(t, http.MethodPost, srv.URL+"/v1/tokens/verify", `{"token":"x.y.z","secret":"s3cret"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.JSONEq(t, `{"valid":false}`, string(body))
	})

	t.Run("longest expiry", func(t *testing.T) {
		t.Parallel()
		resp, body := do(t, http.MethodPost, srv.URL+"/v1/tokens", `{"payload":{},"secret":"k","expires_in":384307168}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

		var long jwt.TokenPair
		require.NoError(t, json.Unmarshal(body, &long))
		require.NotNil(t, long.AccessExpiresAt)
		require.NotNil(t, long.RefreshExpiresAt)
		assert.True(t, long.RefreshExpiresAt.After(*long.AccessExpiresAt))
	})

	t.Run("verify requires secret", func(t *testing.T) {
		t.Parallel()
		resp, body := do(t, http.MethodPost, srv.URL+"/v1/tokens/verify", `{"token":"`+pair.AccessToken+`"}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "missing_secret", errorKey(t, body))
	})

	t.Run("generate validation", func(t *testing.T) {
		t.Parallel()
		cases := []struct {
			body   string
			status int
			key    string
		}{
			{`{"payload":{},"secret":""}`, http.StatusBadRequest, "missing_secret"},
			{`{"payload":{"roles":["a"]},"secret":"k"}`, http.StatusUnprocessableEntity, "invalid_payload"},
			{`{"payload":{},"secret":"k","expires_in":-1}`, http.StatusBadRequest, "invalid_expiry"},
			{`{"payload":{},"secret":"k","expires_in":10000000000}`, http.StatusBadRequest, "invalid_expiry"},
			{`{"payload":{},"secret":"k","expires_in":384307169}`, http.StatusBadRequest, "invalid_expiry"},
			{`{"payload":{},"secret":"k","extra":1}`, http.StatusBadRequest, "bad_request"},
		}
		for _, tc := range cases {
			resp, body := do(t, http.MethodPost, srv.URL+"/v1/tokens", tc.body)
			assert.Equal(t, tc.status, resp.StatusCode, tc.body)
			assert.Equal(t, tc.key, errorKey(t, body), tc.body)
		}
	})
}

func TestHistory(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	resp, _ := do(t, http.MethodPost, srv.URL+"/v1/tokens", `{"payload":{"sub":"1"},"secret":"k"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var list struct {
		Records []history.Record `json:"records"`
	}
	resp, body := do(t, http.MethodGet, srv.URL+"/v1/history?limit=10", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Records, 2)

	id := list.Records[0].ID.String()

	resp, body = do(t, http.MethodGet, srv.URL+"/v1/history/"+id+"/qr?size=128", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	img, err := png.Decode(bytes.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 128, img.Bounds().Dx())

	resp, _ = do(t, http.MethodDelete, srv.URL+"/v1/history/"+id, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, http.MethodDelete, srv.URL+"/v1/history/"+id, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "record_not_found", errorKey(t, body))

	resp, body = do(t, http.MethodDelete, srv.URL+"/v1/history/not-a-uuid", "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "bad_request", errorKey(t, body))

	resp, _ = do(t, http.MethodDelete, srv.URL+"/v1/history", "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, body = do(t, http.MethodGet, srv.URL+"/v1/history", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"records":[]}`, string(body))

	resp, body = do(t, http.MethodGet, srv.URL+"/v1/history/"+uuid.NewString()+"/qr", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "record_not_found", errorKey(t, body))
}

func TestHistoryAuth(t *testing.T) {
	t.Parallel()

	auth, err := jwt.NewFromString("admin-key")
	require.NoError(t, err)
	srv := newServer(t, toolkit.WithHistoryAuth(auth))

	resp, body := do(t, http.MethodGet, srv.URL+"/v1/history", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "unauthorized", errorKey(t, body))

	token, err := auth.Generate(context.Background(), jwt.Payload{"sub": "admin"}, time.Minute)
	require.NoError(t, err)
	resp, _ = do(t, http.MethodGet, srv.URL+"/v1/history", "", "Authorization", "Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Tool routes stay public.
	resp, _ = do(t, http.MethodGet, srv.URL+"/v1/encodings", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRateLimit(t *testing.T) {
	t.Parallel()

	store := ratelimiter.NewMemoryStore(ratelimiter.WithCleanupInterval(0))
	t.Cleanup(store.Close)
	limiter, err := ratelimiter.NewBucket(store, ratelimiter.Config{Capacity: 1, RefillRate: 1, RefillInterval: time.Hour})
	require.NoError(t, err)
	srv := newServer(t, toolkit.WithRateLimit(limiter))

	body := `{"token":"a.b.c"}`
	resp, _ := do(t, http.MethodPost, srv.URL+"/v1/tokens/decode", body)
	assert.NotEqual(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "1", resp.Header.Get("X-RateLimit-Limit"))

	resp, raw := do(t, http.MethodPost, srv.URL+"/v1/tokens/decode", body)
	assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode)
	assert.Equal(t, "rate_limited", errorKey(t, raw))
	assert.NotEmpty(t, resp.Header.Get("Retry-After"))

	// Encoding tools are not limited.
	resp, _ = do(t, http.MethodGet, srv.URL+"/v1/encodings", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestCORSAndFallbacks(t *testing.T) {
	t.Parallel()
	srv := newServer(t, toolkit.WithAllowedOrigins("https://tools.example.com"))

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/v1/tokens", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://tools.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "https://tools.example.com", resp.Header.Get("Access-Control-Allow-Origin"))

	resp, body := do(t, http.MethodGet, srv.URL+"/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", errorKey(t, body))

	resp, body = do(t, http.MethodPut, srv.URL+"/v1/tokens/decode", "")
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	assert.Equal(t, "method_not_allowed", errorKey(t, body))
}

func TestRouterRequiresService(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { toolkit.Router(nil) })
}
