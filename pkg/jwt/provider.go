package jwt

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
)

// Provider supplies the HMAC-SHA256 primitive used to sign tokens. Hosts may
// plug in a remote or hardware-backed implementation; the call may block.
type Provider interface {
	HMACSHA256(ctx context.Context, key, message []byte) ([]byte, error)
}

// ProviderFunc adapts a plain function to the Provider interface.
type ProviderFunc func(ctx context.Context, key, message []byte) ([]byte, error)

func (f ProviderFunc) HMACSHA256(ctx context.Context, key, message []byte) ([]byte, error) {
	return f(ctx, key, message)
}

// HMACProvider computes HMAC-SHA256 in process with the standard library.
type HMACProvider struct{}

func (HMACProvider) HMACSHA256(ctx context.Context, key, message []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h := hmac.New(sha256.New, key)
	h.Write(message)
	return h.Sum(nil), nil
}
