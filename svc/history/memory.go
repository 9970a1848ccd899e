package history

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore keeps records in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[uuid.UUID]Record
	now     func() time.Time
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[uuid.UUID]Record),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(ctx context.Context, records ...Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	prepared := make([]Record, 0, len(records))
	now := s.now()
	for _, r := range records {
		p, err := Prepare(r, now)
		if err != nil {
			return err
		}
		prepared = append(prepared, p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range prepared {
		s.records[r.ID] = clone(r)
	}
	return nil
}

func (s *MemoryStore) List(ctx context.Context, limit int) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, clone(r))
	}
	s.mu.RUnlock()

	slices.SortFunc(out, func(a, b Record) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		// UUIDv7 ids grow with time; break ties on them.
		return cmp.Compare(b.ID.String(), a.ID.String())
	})

	if n := NormalizeLimit(limit); len(out) > n {
		out = out[:n]
	}
	return out, nil
}

func (s *MemoryStore) Get(ctx context.Context, id uuid.UUID) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.records[id]
	if !ok {
		return Record{}, ErrNotFound
	}
	return clone(r), nil
}

func (s *MemoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func (s *MemoryStore) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.records)
	return nil
}

// Healthcheck always succeeds.
func (s *MemoryStore) Healthcheck(context.Context) error { return nil }

func clone(r Record) Record {
	r.Payload = r.Payload.Clone()
	if r.ExpiresAt != nil {
		exp := *r.ExpiresAt
		r.ExpiresAt = &exp
	}
	return r
}
