package jwt

import (
	"encoding/json"
	"fmt"
	"maps"
	"math"
	"time"
)

// Registered claim names managed by the engine.
const (
	ClaimIssuedAt  = "iat"
	ClaimExpiresAt = "exp"
	ClaimNotBefore = "nbf"
)

// Payload is the claim set of a token. Values are expected to be scalars:
// string, bool or a numeric type. Numbers decoded from a token are float64.
type Payload map[string]any

// Clone returns a shallow copy. A nil payload clones to an empty one.
func (p Payload) Clone() Payload {
	out := make(Payload, len(p)+2)
	maps.Copy(out, p)
	return out
}

// Validate reports ErrInvalidPayload when a value is not a scalar.
// Nested objects, arrays and nulls are outside the supported contract.
func (p Payload) Validate() error {
	for k, v := range p {
		switch v := v.(type) {
		case string, bool, json.Number,
			int, int8, int16, int32, int64,
			uint, uint8, uint16, uint32, uint64:
		case float32:
			if math.IsNaN(float64(v)) || math.IsInf(float64(v), 0) {
				return fmt.Errorf("%w: claim %q is not a finite number", ErrInvalidPayload, k)
			}
		case float64:
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return fmt.Errorf("%w: claim %q is not a finite number", ErrInvalidPayload, k)
			}
		default:
			return fmt.Errorf("%w: claim %q holds %T, want string, number or bool", ErrInvalidPayload, k, v)
		}
	}
	return nil
}

// IssuedAt returns the iat claim as Unix seconds.
func (p Payload) IssuedAt() (int64, bool) { return p.numeric(ClaimIssuedAt) }

// ExpiresAt returns the exp claim as Unix seconds.
func (p Payload) ExpiresAt() (int64, bool) { return p.numeric(ClaimExpiresAt) }

// NotBefore returns the nbf claim as Unix seconds.
func (p Payload) NotBefore() (int64, bool) { return p.numeric(ClaimNotBefore) }

// Expired reports whether the exp claim is set and lies before now.
// A payload without exp never expires.
func (p Payload) Expired(now time.Time) bool {
	exp, ok := p.ExpiresAt()
	return ok && now.Unix() > exp
}

func (p Payload) numeric(key string) (int64, bool) {
	switch v := p[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return 0, false
			}
			return int64(f), true
		}
		return n, true
	}
	return 0, false
}
