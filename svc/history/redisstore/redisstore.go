// Package redisstore is a Redis history.Store.
//
// Each record is a JSON string under "<prefix>:record:<id>". The sorted set
// "<prefix>:index" holds every id scored by creation time in Unix
// milliseconds.
package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/tokenkit/svc/history"
)

const DefaultPrefix = "tokenkit:history"

// deleteAllScript drops every indexed record and the index in one atomic
// step, so a concurrent Save lands either before or after it.
//
// KEYS[1] index key
// ARGV[1] record key prefix
var deleteAllScript = redis.NewScript(`
local ids = redis.call('ZRANGE', KEYS[1], 0, -1)
for i = 1, #ids do
	redis.call('DEL', ARGV[1] .. ids[i])
end
redis.call('DEL', KEYS[1])
return #ids
`)

// Store keeps records in Redis.
type Store struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

var _ history.Store = (*Store)(nil)

// New returns a Store. An empty prefix means DefaultPrefix.
func New(client redis.UniversalClient, prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Store{client: client, prefix: prefix, now: time.Now}
}

func (s *Store) indexKey() string { return s.prefix + ":index" }

func (s *Store) recordKey(id string) string { return s.prefix + ":record:" + id }

func (s *Store) Save(ctx context.Context, records ...history.Record) error {
	if len(records) == 0 {
		return nil
	}

	now := s.now()
	pipe := s.client.TxPipeline()
	for _, r := range records {
		r, err := history.Prepare(r, now)
		if err != nil {
			return err
		}
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("redisstore: encode record: %w", err)
		}
		id := r.ID.String()
		pipe.Set(ctx, s.recordKey(id), data, 0)
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{Score: float64(r.CreatedAt.UnixMilli()), Member: id})
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(history.ErrStorage, err)
	}
	return nil
}

// List pages through the index newest first. Index entries whose record key
// vanished are skipped, the page is refilled from further down the index and
// the stale entries are removed afterwards.
func (s *Store) List(ctx context.Context, limit int) ([]history.Record, error) {
	n := history.NormalizeLimit(limit)
	records := make([]history.Record, 0, n)
	var (
		dangling []any
		offset   int64
	)

	for len(records) < n {
		want := int64(n - len(records))
		ids, err := s.client.ZRevRange(ctx, s.indexKey(), offset, offset+want-1).Result()
		if err != nil {
			return nil, errors.Join(history.ErrStorage, err)
		}
		if len(ids) == 0 {
			break
		}
		offset += int64(len(ids))

		keys := make([]string, len(ids))
		for i, id := range ids {
			keys[i] = s.recordKey(id)
		}
		values, err := s.client.MGet(ctx, keys...).Result()
		if err != nil {
			return nil, errors.Join(history.ErrStorage, err)
		}

		for i, v := range values {
			str, ok := v.(string)
			if !ok {
				dangling = append(dangling, ids[i])
				continue
			}
			r, err := decode(str)
			if err != nil {
				return nil, err
			}
			records = append(records, r)
		}

		if int64(len(ids)) < want {
			break
		}
	}

	if len(dangling) > 0 {
		_ = s.client.ZRem(ctx, s.indexKey(), dangling...).Err()
	}
	return records, nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (history.Record, error) {
	data, err := s.client.Get(ctx, s.recordKey(id.String())).Result()
	if errors.Is(err, redis.Nil) {
		return history.Record{}, history.ErrNotFound
	}
	if err != nil {
		return history.Record{}, errors.Join(history.ErrStorage, err)
	}
	return decode(data)
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	key := id.String()
	pipe := s.client.TxPipeline()
	del := pipe.Del(ctx, s.recordKey(key))
	pipe.ZRem(ctx, s.indexKey(), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(history.ErrStorage, err)
	}
	if del.Val() == 0 {
		return history.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	err := deleteAllScript.Run(ctx, s.client, []string{s.indexKey()}, s.recordKey("")).Err()
	if err != nil {
		return errors.Join(history.ErrStorage, err)
	}
	return nil
}

// Healthcheck pings the server.
func (s *Store) Healthcheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return errors.Join(history.ErrStorage, err)
	}
	return nil
}

func decode(data string) (history.Record, error) {
	var r history.Record
	if err := json.Unmarshal([]byte(data), &r); err != nil {
		return history.Record{}, errors.Join(history.ErrStorage, fmt.Errorf("redisstore: decode record: %w", err))
	}
	return r, nil
}
