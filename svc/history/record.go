package history

import (
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/tokenkit/pkg/jwt"
)

// Type tells access and refresh tokens apart.
type Type string

const (
	TypeAccess  Type = jwt.TokenTypeAccess
	TypeRefresh Type = jwt.TokenTypeRefresh
)

// Valid reports whether t is a known token type.
func (t Type) Valid() bool {
	return t == TypeAccess || t == TypeRefresh
}

// Record is one stored token.
type Record struct {
	ID        uuid.UUID   `json:"id"`
	Token     string      `json:"token"`
	Type      Type        `json:"token_type"`
	Payload   jwt.Payload `json:"payload"`
	ExpiresAt *time.Time  `json:"expires_at,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

// Expired reports whether the record has an expiry at or before now.
func (r Record) Expired(now time.Time) bool {
	return r.ExpiresAt != nil && !now.Before(*r.ExpiresAt)
}

// RecordsFromPair turns a generated pair into its access and refresh records.
func RecordsFromPair(pair jwt.TokenPair) []Record {
	return []Record{
		{
			Token:     pair.AccessToken,
			Type:      TypeAccess,
			Payload:   pair.AccessPayload.Clone(),
			ExpiresAt: pair.AccessExpiresAt,
		},
		{
			Token:     pair.RefreshToken,
			Type:      TypeRefresh,
			Payload:   pair.RefreshPayload.Clone(),
			ExpiresAt: pair.RefreshExpiresAt,
		},
	}
}

// Prepare validates r, fills a missing ID and CreatedAt and normalizes
// timestamps to UTC.
func Prepare(r Record, now time.Time) (Record, error) {
	if r.Token == "" {
		return Record{}, ErrEmptyToken
	}
	if !r.Type.Valid() {
		return Record{}, ErrInvalidType
	}
	if r.ID == uuid.Nil {
		id, err := uuid.NewV7()
		if err != nil {
			id = uuid.New()
		}
		r.ID = id
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	// Every backend keeps at least millisecond precision.
	r.CreatedAt = r.CreatedAt.UTC().Truncate(time.Millisecond)
	if r.ExpiresAt != nil {
		exp := r.ExpiresAt.UTC()
		r.ExpiresAt = &exp
	}
	if r.Payload == nil {
		r.Payload = jwt.Payload{}
	}
	return r, nil
}

// NormalizeLimit maps non-positive limits to DefaultListLimit and caps the
// result at MaxListLimit.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultListLimit
	}
	return min(limit, MaxListLimit)
}
