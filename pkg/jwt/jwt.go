package jwt

import (
	"bytes"
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/dmitrymomot/tokenkit/pkg/codec"
)

// JWT header constants required by RFC 7519
const (
	HeaderType      = "JWT"
	HeaderAlgorithm = "HS256"
)

// Header represents the JWT header as defined in RFC 7515.
// Field order matters: it fixes the serialised form {"alg":"HS256","typ":"JWT"}.
type Header struct {
	Algorithm string `json:"alg"`
	Type      string `json:"typ"`
}

// DecodedToken is the structural view of a token. Signature is the third
// segment verbatim, still Base64URL text.
type DecodedToken struct {
	Header    Header  `json:"header"`
	Payload   Payload `json:"payload"`
	Signature string  `json:"signature"`
}

// Engine creates and verifies HS256 tokens. It keeps no state between calls.
type Engine struct {
	provider Provider
	now      func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithProvider replaces the HMAC provider. Nil is ignored.
func WithProvider(p Provider) Option {
	return func(e *Engine) {
		if p != nil {
			e.provider = p
		}
	}
}

// WithClock overrides the time source used for iat, exp and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine returns an Engine backed by HMACProvider unless configured otherwise.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		provider: HMACProvider{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Create signs payload with secret. When expiresIn holds at least one whole
// second, iat and exp are set to now and now+expiresIn, replacing any values
// supplied by the caller. A zero, negative or sub-second expiresIn leaves the
// payload untouched.
func (e *Engine) Create(ctx context.Context, payload Payload, secret string, expiresIn time.Duration) (string, error) {
	claims := payload.Clone()
	if secs := int64(expiresIn / time.Second); secs > 0 {
		now := e.now().Unix()
		claims[ClaimIssuedAt] = now
		claims[ClaimExpiresAt] = now + secs
	}

	headerJSON, err := json.Marshal(Header{Algorithm: HeaderAlgorithm, Type: HeaderType})
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}

	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", errors.Join(ErrInvalidPayload, err)
	}

	signingInput := codec.EncodeBase64URL(headerJSON) + "." + codec.EncodeBase64URL(claimsJSON)

	signature, err := e.sign(ctx, secret, signingInput)
	if err != nil {
		return "", err
	}

	return signingInput + "." + signature, nil
}

// Verify reports whether token carries a valid HS256 signature for secret.
// Malformed tokens and foreign algorithms yield false with a nil error; an
// error is returned only when the provider itself fails.
func (e *Engine) Verify(ctx context.Context, token, secret string) (bool, error) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false, nil
	}

	var header Header
	if err := decodeSegment(parts[0], &header); err != nil || header.Algorithm != HeaderAlgorithm {
		return false, nil
	}

	expected, err := e.sign(ctx, secret, parts[0]+"."+parts[1])
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare([]byte(parts[2]), []byte(expected)) == 1, nil
}

// Decode splits token and parses its header and payload without checking the
// signature. Any structural problem yields nil, false.
func Decode(token string) (*DecodedToken, bool) {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return nil, false
	}

	var header Header
	if err := decodeSegment(parts[0], &header); err != nil {
		return nil, false
	}

	var payload Payload
	if err := decodeSegment(parts[1], &payload); err != nil {
		return nil, false
	}

	return &DecodedToken{
		Header:    header,
		Payload:   payload,
		Signature: parts[2],
	}, true
}

var defaultEngine = NewEngine()

// Create signs payload with the default engine.
func Create(payload Payload, secret string, expiresIn time.Duration) (string, error) {
	return defaultEngine.Create(context.Background(), payload, secret, expiresIn)
}

// Verify checks token against secret with the default engine. The in-process
// provider cannot fail, so every failure is reported as false.
func Verify(token, secret string) bool {
	ok, err := defaultEngine.Verify(context.Background(), token, secret)
	return err == nil && ok
}

// sign returns the Base64URL-encoded HMAC-SHA256 of input keyed by secret.
func (e *Engine) sign(ctx context.Context, secret, input string) (string, error) {
	mac, err := e.provider.HMACSHA256(ctx, []byte(secret), []byte(input))
	if err != nil {
		return "", errors.Join(ErrProviderFailure, err)
	}
	return codec.EncodeBase64URL(mac), nil
}

// decodeSegment decodes a Base64URL segment holding a JSON object into dst.
func decodeSegment(segment string, dst any) error {
	raw, err := codec.DecodeBase64URL(segment)
	if err != nil {
		return err
	}
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return ErrInvalidToken
	}
	return json.Unmarshal(raw, dst)
}
