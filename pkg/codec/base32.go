package codec

import (
	"encoding/base32"
	"strings"
)

const base32Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ234567"

// EncodeBase32 encodes data with the RFC 4648 alphabet, padded with '=' to a
// multiple of eight characters.
func EncodeBase32(data []byte) string {
	return base32.StdEncoding.EncodeToString(data)
}

// DecodeBase32 treats the input as a stream of 5-bit groups. Padding is
// stripped wherever it occurs, lookup is case-insensitive and only complete
// bytes are emitted: a trailing remainder of fewer than eight bits is dropped.
func DecodeBase32(s string) ([]byte, error) {
	clean := strings.ToUpper(strings.ReplaceAll(s, "=", ""))

	out := make([]byte, 0, len(clean)*5/8)
	var (
		acc  uint32
		bits uint
	)
	for i := 0; i < len(clean); i++ {
		idx := strings.IndexByte(base32Alphabet, clean[i])
		if idx < 0 {
			return nil, ErrInvalidBase32
		}
		acc = acc<<5 | uint32(idx)
		bits += 5
		if bits >= 8 {
			bits -= 8
			out = append(out, byte(acc>>bits))
			acc &= 1<<bits - 1
		}
	}

	return out, nil
}
