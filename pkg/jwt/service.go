package jwt

import (
	"context"
	"time"
)

// Service binds an Engine to a single signing key. It is what Middleware
// uses to authenticate requests.
type Service struct {
	engine     *Engine
	signingKey []byte
}

// New creates a service with the provided signing key.
// The key should be at least 32 bytes for adequate security with HMAC-SHA256.
func New(signingKey []byte, opts ...Option) (*Service, error) {
	if len(signingKey) == 0 {
		return nil, ErrMissingSigningKey
	}

	return &Service{
		engine:     NewEngine(opts...),
		signingKey: signingKey,
	}, nil
}

// NewFromString is New for string-based configuration.
func NewFromString(signingKey string, opts ...Option) (*Service, error) {
	return New([]byte(signingKey), opts...)
}

// Generate signs payload with the service key.
func (s *Service) Generate(ctx context.Context, payload Payload, expiresIn time.Duration) (string, error) {
	return s.engine.Create(ctx, payload, string(s.signingKey), expiresIn)
}

// Parse verifies token and returns its decoded form. Unlike Verify it
// explains the failure and also rejects expired and not-yet-valid tokens.
func (s *Service) Parse(ctx context.Context, token string) (*DecodedToken, error) {
	decoded, ok := Decode(token)
	if !ok {
		return nil, ErrInvalidToken
	}

	// Reject tokens using unexpected algorithms to prevent algorithm confusion attacks
	if decoded.Header.Algorithm != HeaderAlgorithm {
		return nil, ErrUnexpectedSigningMethod
	}

	valid, err := s.engine.Verify(ctx, token, string(s.signingKey))
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, ErrInvalidSignature
	}

	now := s.engine.now()
	if decoded.Payload.Expired(now) {
		return nil, ErrExpiredToken
	}
	if nbf, ok := decoded.Payload.NotBefore(); ok && now.Unix() < nbf {
		return nil, ErrInvalidToken
	}

	return decoded, nil
}
