// Package pgstore is a PostgreSQL history.Store.
package pgstore

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/tokenkit/pkg/jwt"
	"github.com/dmitrymomot/tokenkit/pkg/pg"
	"github.com/dmitrymomot/tokenkit/svc/history"
)

//go:embed migrations/*.sql
var migrations embed.FS

// Migrations returns the goose migrations creating the token_history table.
func Migrations() fs.FS {
	sub, err := fs.Sub(migrations, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

const (
	insertQuery = `INSERT INTO token_history (id, token, token_type, payload, expires_at, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	selectColumns = `SELECT id, token, token_type, payload, expires_at, created_at FROM token_history`
	listQuery     = selectColumns + ` ORDER BY created_at DESC, id DESC LIMIT $1`
	getQuery      = selectColumns + ` WHERE id = $1`
	deleteQuery   = `DELETE FROM token_history WHERE id = $1`
	truncateQuery = `DELETE FROM token_history`
)

// Store keeps records in the token_history table.
type Store struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ history.Store = (*Store)(nil)

// New returns a Store over pool. The schema must already be migrated.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool, now: time.Now}
}

// Save inserts all records in one transaction.
func (s *Store) Save(ctx context.Context, records ...history.Record) error {
	if len(records) == 0 {
		return nil
	}

	now := s.now()
	batch := &pgx.Batch{}
	for _, r := range records {
		r, err := history.Prepare(r, now)
		if err != nil {
			return err
		}
		payload, err := json.Marshal(r.Payload)
		if err != nil {
			return fmt.Errorf("pgstore: encode payload: %w", err)
		}
		batch.Queue(insertQuery, r.ID, r.Token, string(r.Type), payload, r.ExpiresAt, r.CreatedAt)
	}

	err := pgx.BeginFunc(ctx, s.pool, func(tx pgx.Tx) error {
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return errors.Join(history.ErrStorage, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, limit int) ([]history.Record, error) {
	rows, err := s.pool.Query(ctx, listQuery, history.NormalizeLimit(limit))
	if err != nil {
		return nil, errors.Join(history.ErrStorage, err)
	}

	records, err := pgx.CollectRows(rows, scanRecord)
	if err != nil {
		return nil, errors.Join(history.ErrStorage, err)
	}
	return records, nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (history.Record, error) {
	rows, err := s.pool.Query(ctx, getQuery, id)
	if err != nil {
		return history.Record{}, errors.Join(history.ErrStorage, err)
	}

	r, err := pgx.CollectExactlyOneRow(rows, scanRecord)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return history.Record{}, history.ErrNotFound
		}
		return history.Record{}, errors.Join(history.ErrStorage, err)
	}
	return r, nil
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, deleteQuery, id)
	if err != nil {
		return errors.Join(history.ErrStorage, err)
	}
	if tag.RowsAffected() == 0 {
		return history.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, truncateQuery); err != nil {
		return errors.Join(history.ErrStorage, err)
	}
	return nil
}

// Healthcheck pings the pool.
func (s *Store) Healthcheck(ctx context.Context) error {
	return pg.Healthcheck(s.pool)(ctx)
}

func scanRecord(row pgx.CollectableRow) (history.Record, error) {
	var (
		r       history.Record
		typ     string
		payload []byte
	)
	if err := row.Scan(&r.ID, &r.Token, &typ, &payload, &r.ExpiresAt, &r.CreatedAt); err != nil {
		return history.Record{}, err
	}
	r.Type = history.Type(typ)
	r.CreatedAt = r.CreatedAt.UTC()
	if r.ExpiresAt != nil {
		exp := r.ExpiresAt.UTC()
		r.ExpiresAt = &exp
	}

	r.Payload = jwt.Payload{}
	if len(payload) > 0 {
		if err := json.Unmarshal(payload, &r.Payload); err != nil {
			return history.Record{}, fmt.Errorf("pgstore: decode payload: %w", err)
		}
	}
	return r, nil
}
