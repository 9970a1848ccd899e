package app

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dmitrymomot/tokenkit/pkg/httpserver"
	"github.com/dmitrymomot/tokenkit/pkg/logger"
	"github.com/dmitrymomot/tokenkit/pkg/mongo"
	"github.com/dmitrymomot/tokenkit/pkg/pg"
	"github.com/dmitrymomot/tokenkit/pkg/redis"
	"github.com/dmitrymomot/tokenkit/svc/history"
	"github.com/dmitrymomot/tokenkit/svc/history/mongostore"
	"github.com/dmitrymomot/tokenkit/svc/history/pgstore"
	"github.com/dmitrymomot/tokenkit/svc/history/redisstore"
)

// Backend is an opened history store with its readiness check and cleanup.
type Backend struct {
	Name  string
	Store history.Store
	Check httpserver.CheckFunc
	Close func()
}

// OpenHistory connects the backend named by cfg.HistoryBackend.
func OpenHistory(ctx context.Context, cfg Config, log *slog.Logger) (*Backend, error) {
	name := strings.ToLower(cfg.HistoryBackend)
	log = log.With(logger.Backend(name))

	switch name {
	case BackendPostgres:
		pool, err := pg.Connect(ctx, cfg.PG)
		if err != nil {
			return nil, errors.Join(ErrOpenHistory, err)
		}
		if err := pg.Migrate(ctx, pool, cfg.PG, pgstore.Migrations(), log); err != nil {
			pool.Close()
			return nil, errors.Join(ErrOpenHistory, err)
		}
		return &Backend{Name: name, Store: pgstore.New(pool), Check: pg.Healthcheck(pool), Close: pool.Close}, nil

	case BackendRedis:
		client, err := redis.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, errors.Join(ErrOpenHistory, err)
		}
		prefix := cfg.Redis.KeyPrefix
		if prefix != "" {
			prefix += ":history"
		}
		return &Backend{
			Name:  name,
			Store: redisstore.New(client, prefix),
			Check: redis.Healthcheck(client),
			Close: func() {
				if err := client.Close(); err != nil {
					log.Error("failed to close redis client", logger.Error(err))
				}
			},
		}, nil

	case BackendMongo:
		client, err := mongo.Connect(ctx, cfg.Mongo)
		if err != nil {
			return nil, errors.Join(ErrOpenHistory, err)
		}
		store, err := mongostore.New(ctx, client.Database(cfg.Mongo.Database), "")
		if err != nil {
			_ = client.Disconnect(context.WithoutCancel(ctx))
			return nil, errors.Join(ErrOpenHistory, err)
		}
		return &Backend{
			Name:  name,
			Store: store,
			Check: mongo.Healthcheck(client),
			Close: func() {
				if err := client.Disconnect(context.Background()); err != nil {
					log.Error("failed to disconnect mongo client", logger.Error(err))
				}
			},
		}, nil

	case BackendMemory, "":
		store := history.NewMemoryStore()
		return &Backend{Name: BackendMemory, Store: store, Check: store.Healthcheck, Close: func() {}}, nil
	}

	return nil, errors.Join(ErrOpenHistory, ErrInvalidConfig)
}
