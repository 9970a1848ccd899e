package codec

import (
	"encoding/base64"
	"errors"
	"strings"
)

// EncodeBase64 encodes data with the standard padded RFC 4648 alphabet.
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// DecodeBase64 decodes standard padded base64.
func DecodeBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, errors.Join(ErrInvalidBase64, err)
	}
	return b, nil
}

// EncodeBase64URL encodes data using the URL-safe alphabet without padding,
// as required for JWT segments.
func EncodeBase64URL(data []byte) string {
	return base64.RawURLEncoding.EncodeToString(data)
}

// DecodeBase64URL reverses EncodeBase64URL. Input is mapped back onto the
// standard alphabet and re-padded to a multiple of four before decoding.
func DecodeBase64URL(s string) ([]byte, error) {
	std := strings.NewReplacer("-", "+", "_", "/").Replace(s)
	if rem := len(std) % 4; rem != 0 {
		std += strings.Repeat("=", 4-rem)
	}

	b, err := base64.StdEncoding.DecodeString(std)
	if err != nil {
		return nil, errors.Join(ErrInvalidBase64URL, err)
	}
	return b, nil
}
