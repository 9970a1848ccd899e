// Package jwt builds, decodes and verifies compact HS256 JSON Web Tokens.
//
// A token is three Base64URL segments joined by dots:
//
//	base64url(header) "." base64url(payload) "." base64url(HMAC-SHA256(secret, header "." payload))
//
// The header is always {"alg":"HS256","typ":"JWT"}. Payloads are flat maps of
// scalar values (string, number, boolean). When an expiry is requested the
// registered claims iat and exp are injected as Unix seconds.
//
// # Architecture
//
//   - Engine – stateless Create, Decode and Verify over a pluggable Provider.
//   - Provider – the HMAC-SHA256 primitive; HMACProvider is the in-process default.
//   - Service – an Engine bound to one signing key, used by Middleware.
//   - GeneratePair – access/refresh token pairs.
//   - context.go and middleware.go – HTTP integration.
//
// # Usage
//
//	import "github.com/dmitrymomot/tokenkit/pkg/jwt"
//
//	token, err := jwt.Create(jwt.Payload{"sub": "1234567890"}, "secret", time.Hour)
//	if err != nil {
//	    // payload could not be serialised
//	}
//
//	decoded, ok := jwt.Decode(token) // no signature check
//	valid := jwt.Verify(token, "secret")
//
// # Error Handling
//
// Decode reports malformed tokens with ok == false, Verify with false. Neither
// distinguishes a bad signature from a malformed token. Only a failing Provider
// surfaces as an error from Engine.Verify, wrapped in ErrProviderFailure.
//
// Service.Parse returns sentinel errors such as ErrInvalidSignature or
// ErrExpiredToken, comparable with errors.Is.
//
// # Concurrency
//
// Engine and Service hold no mutable state and are safe for concurrent use.
package jwt
