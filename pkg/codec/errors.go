package codec

import "errors"

var (
	ErrInvalidBase64    = errors.New("codec: invalid base64 string")
	ErrInvalidBase64URL = errors.New("codec: invalid base64url string")
	ErrInvalidBase32    = errors.New("codec: invalid base32 string")
	ErrInvalidHex       = errors.New("codec: invalid hex string")
	ErrUnknownScheme    = errors.New("codec: unknown encoding scheme")
)
