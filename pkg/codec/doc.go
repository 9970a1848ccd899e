// Package codec converts byte sequences to and from four text encodings:
// Base64, Base64URL, Base32 and hexadecimal.
//
// All functions are pure and safe for concurrent use. Decoders never panic on
// malformed input; they return a nil slice together with a sentinel error
// (ErrInvalidBase64, ErrInvalidBase64URL, ErrInvalidBase32, ErrInvalidHex)
// that can be checked with errors.Is.
//
// # Usage
//
//	import "github.com/dmitrymomot/tokenkit/pkg/codec"
//
//	s := codec.EncodeBase64URL([]byte("hello?")) // "aGVsbG8_"
//	b, err := codec.DecodeBase64URL(s)
//	if err != nil {
//	    // malformed input
//	}
//
// Schemes can also be selected by name, which is how the HTTP API and CLI
// dispatch requests:
//
//	scheme, err := codec.ParseScheme("base32")
//	out, err := codec.Encode(scheme, []byte("AB"))
//
// # Leniency
//
// Base32 decoding is case-insensitive and silently drops a trailing group of
// fewer than eight bits. Base64URL decoding also accepts the standard '+' and
// '/' characters as well as padded input. Hex decoding ignores whitespace.
package codec
