package codec

import (
	"encoding/hex"
	"errors"
	"strings"
	"unicode"
)

// EncodeHex encodes every byte as two lowercase hex digits.
func EncodeHex(data []byte) string {
	return hex.EncodeToString(data)
}

// DecodeHex ignores whitespace and accepts digits in either case.
func DecodeHex(s string) ([]byte, error) {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)

	if len(clean)%2 != 0 {
		return nil, ErrInvalidHex
	}

	b, err := hex.DecodeString(clean)
	if err != nil {
		return nil, errors.Join(ErrInvalidHex, err)
	}
	return b, nil
}
