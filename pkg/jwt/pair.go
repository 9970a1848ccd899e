package jwt

import (
	"context"
	"math"
	"time"
)

// Token types of a pair; also the value of the "type" claim on refresh tokens.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	ClaimType = "type"
)

const (
	// RefreshLifetimeFactor scales the access lifetime into the refresh lifetime.
	RefreshLifetimeFactor = 24
	// DefaultRefreshLifetime applies when the access token does not expire.
	DefaultRefreshLifetime = 30 * 24 * time.Hour
	// MaxPairLifetime is the longest access lifetime whose refresh lifetime
	// still fits in a time.Duration. Longer refresh lifetimes are capped.
	MaxPairLifetime = time.Duration(math.MaxInt64 / RefreshLifetimeFactor)
)

// TokenPair is an access token and its companion refresh token.
// Payloads are the claim sets as requested, before iat/exp injection.
type TokenPair struct {
	AccessToken      string     `json:"access_token"`
	RefreshToken     string     `json:"refresh_token"`
	AccessPayload    Payload    `json:"access_payload"`
	RefreshPayload   Payload    `json:"refresh_payload"`
	AccessExpiresAt  *time.Time `json:"access_expires_at,omitempty"`
	RefreshExpiresAt *time.Time `json:"refresh_expires_at,omitempty"`
}

// GeneratePair creates an access token living expiresIn and a refresh token
// with the extra claim type=refresh living RefreshLifetimeFactor times longer,
// or DefaultRefreshLifetime when the access token has no expiry. The refresh
// lifetime saturates at the largest time.Duration instead of wrapping.
func (e *Engine) GeneratePair(ctx context.Context, payload Payload, secret string, expiresIn time.Duration) (TokenPair, error) {
	access, err := e.Create(ctx, payload, secret, expiresIn)
	if err != nil {
		return TokenPair{}, err
	}

	refreshPayload := payload.Clone()
	refreshPayload[ClaimType] = TokenTypeRefresh

	refreshIn := DefaultRefreshLifetime
	switch {
	case expiresIn > MaxPairLifetime:
		refreshIn = time.Duration(math.MaxInt64)
	case expiresIn >= time.Second:
		refreshIn = expiresIn * RefreshLifetimeFactor
	}

	refresh, err := e.Create(ctx, refreshPayload, secret, refreshIn)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessPayload:    payload.Clone(),
		RefreshPayload:   refreshPayload,
		AccessExpiresAt:  expiryOf(access),
		RefreshExpiresAt: expiryOf(refresh),
	}, nil
}

// GeneratePair builds a token pair with the default engine.
func GeneratePair(payload Payload, secret string, expiresIn time.Duration) (TokenPair, error) {
	return defaultEngine.GeneratePair(context.Background(), payload, secret, expiresIn)
}

func expiryOf(token string) *time.Time {
	decoded, ok := Decode(token)
	if !ok {
		return nil
	}
	exp, ok := decoded.Payload.ExpiresAt()
	if !ok {
		return nil
	}
	t := time.Unix(exp, 0).UTC()
	return &t
}
