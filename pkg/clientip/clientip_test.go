package clientip_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/tokenkit/pkg/clientip"
)

func TestGetIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		trustProxy bool
		want       string
	}{
		{name: "remote addr", remoteAddr: "192.0.2.1:5000", want: "192.0.2.1"},
		{name: "remote addr without port", remoteAddr: "192.0.2.1", want: "192.0.2.1"},
		{name: "ipv6 remote addr", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{
			name:       "headers ignored without trust",
			remoteAddr: "192.0.2.1:5000",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.7", "X-Real-IP": "203.0.113.8"},
			want:       "192.0.2.1",
		},
		{
			name:       "first valid forwarded entry",
			remoteAddr: "192.0.2.1:5000",
			headers:    map[string]string{"X-Forwarded-For": "garbage, 203.0.113.7, 10.0.0.1"},
			trustProxy: true,
			want:       "203.0.113.7",
		},
		{
			name:       "real ip when forwarded invalid",
			remoteAddr: "192.0.2.1:5000",
			headers:    map[string]string{"X-Forwarded-For": "unknown", "X-Real-IP": " 203.0.113.8 "},
			trustProxy: true,
			want:       "203.0.113.8",
		},
		{name: "invalid remote addr", remoteAddr: "not-an-ip", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientip.GetIP(req, tt.trustProxy))
		})
	}
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var got string
	h := clientip.Middleware(true)(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = clientip.FromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	h.ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, "203.0.113.7", got)

	attr, ok := clientip.LoggerExtractor()(clientip.WithContext(context.Background(), got))
	assert.True(t, ok)
	assert.Equal(t, "client_ip", attr.Key)

	_, ok = clientip.LoggerExtractor()(context.Background())
	assert.False(t, ok)
}
