package codec

import "strings"

// Scheme names one of the supported text encodings.
type Scheme string

const (
	Base64    Scheme = "base64"
	Base64URL Scheme = "base64url"
	Base32    Scheme = "base32"
	Hex       Scheme = "hex"
)

// Schemes returns all supported schemes in a stable order.
func Schemes() []Scheme {
	return []Scheme{Base64, Base64URL, Base32, Hex}
}

// ParseScheme resolves a scheme name case-insensitively.
func ParseScheme(name string) (Scheme, error) {
	s := Scheme(strings.ToLower(strings.TrimSpace(name)))
	switch s {
	case Base64, Base64URL, Base32, Hex:
		return s, nil
	}
	return "", ErrUnknownScheme
}

// Encode encodes data with the given scheme.
func Encode(scheme Scheme, data []byte) (string, error) {
	switch scheme {
	case Base64:
		return EncodeBase64(data), nil
	case Base64URL:
		return EncodeBase64URL(data), nil
	case Base32:
		return EncodeBase32(data), nil
	case Hex:
		return EncodeHex(data), nil
	}
	return "", ErrUnknownScheme
}

// Decode decodes s with the given scheme.
func Decode(scheme Scheme, s string) ([]byte, error) {
	switch scheme {
	case Base64:
		return DecodeBase64(s)
	case Base64URL:
		return DecodeBase64URL(s)
	case Base32:
		return DecodeBase32(s)
	case Hex:
		return DecodeHex(s)
	}
	return nil, ErrUnknownScheme
}
