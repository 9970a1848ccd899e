package jwt

import "context"

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{ name string }

// String returns the name of the context key.
func (c contextKey) String() string { return c.name }

var (
	tokenContextKey   = &contextKey{name: "jwt"}
	payloadContextKey = &contextKey{name: "jwt_payload"}
)

// SetToken stores the raw token string in the context.
func SetToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenContextKey, token)
}

// GetToken returns the raw token string stored by SetToken.
func GetToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey).(string)
	return token, ok
}

// SetPayload stores verified claims in the context.
func SetPayload(ctx context.Context, payload Payload) context.Context {
	return context.WithValue(ctx, payloadContextKey, payload)
}

// GetPayload returns the claims stored by SetPayload.
func GetPayload(ctx context.Context) (Payload, bool) {
	payload, ok := ctx.Value(payloadContextKey).(Payload)
	return payload, ok
}

// GetClaim returns a single claim from the context payload as type T.
// The second value is false when there is no payload, no such claim, or the
// claim holds a different type. Remember that decoded numbers are float64.
func GetClaim[T any](ctx context.Context, name string) (T, bool) {
	var zero T
	payload, ok := GetPayload(ctx)
	if !ok {
		return zero, false
	}
	v, ok := payload[name].(T)
	if !ok {
		return zero, false
	}
	return v, true
}
