package history

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

var (
	ErrNotFound    = errors.New("history record not found")
	ErrEmptyToken  = errors.New("history record has no token")
	ErrInvalidType = errors.New("history record has an unknown token type")
	ErrStorage     = errors.New("history storage failure")
)

// Store persists history records.
type Store interface {
	// Save stores records atomically where the backend allows it.
	Save(ctx context.Context, records ...Record) error
	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]Record, error)
	Get(ctx context.Context, id uuid.UUID) (Record, error)
	// Delete removes one record or returns ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) error
}
