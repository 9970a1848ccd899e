package qrcode

import (
	"errors"
	"strings"

	skipqrcode "github.com/skip2/go-qrcode"

	"github.com/dmitrymomot/tokenkit/pkg/codec"
)

var (
	ErrEmptyContent     = errors.New("content cannot be empty")
	ErrContentTooLong   = errors.New("content does not fit into a QR code")
	ErrFailedToGenerate = errors.New("failed to generate QR code")
)

const (
	DefaultSize = 256
	MaxSize     = 2048
)

// Level is the error correction level. Lower levels hold more data.
type Level = skipqrcode.RecoveryLevel

const (
	Low     = skipqrcode.Low
	Medium  = skipqrcode.Medium
	High    = skipqrcode.High
	Highest = skipqrcode.Highest
)

// Generate renders content as a size x size PNG with medium recovery.
func Generate(content string, size int) ([]byte, error) {
	return GenerateWithLevel(content, size, Medium)
}

// GenerateWithLevel is Generate with an explicit recovery level. Sizes are
// clamped to (0, MaxSize]; non-positive sizes fall back to DefaultSize.
func GenerateWithLevel(content string, size int, level Level) ([]byte, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	if size <= 0 {
		size = DefaultSize
	}
	size = min(size, MaxSize)

	png, err := skipqrcode.Encode(content, level, size)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "too long") {
			return nil, errors.Join(ErrContentTooLong, err)
		}
		return nil, errors.Join(ErrFailedToGenerate, err)
	}
	return png, nil
}

// DataURI returns the PNG as a data:image/png;base64 URI for embedding in HTML.
func DataURI(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + codec.EncodeBase64(png), nil
}
