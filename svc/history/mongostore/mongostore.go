// Package mongostore is a MongoDB history.Store.
package mongostore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/dmitrymomot/tokenkit/pkg/jwt"
	"github.com/dmitrymomot/tokenkit/svc/history"
)

const DefaultCollection = "token_history"

type document struct {
	ID        string         `bson:"_id"`
	Token     string         `bson:"token"`
	Type      string         `bson:"token_type"`
	Payload   map[string]any `bson:"payload"`
	ExpiresAt *time.Time     `bson:"expires_at,omitempty"`
	CreatedAt time.Time      `bson:"created_at"`
}

// Store keeps records in a MongoDB collection.
type Store struct {
	coll *mongo.Collection
	now  func() time.Time
}

var _ history.Store = (*Store)(nil)

// New returns a Store over db and makes sure the created_at index exists.
// An empty collection name means DefaultCollection.
func New(ctx context.Context, db *mongo.Database, collection string) (*Store, error) {
	if collection == "" {
		collection = DefaultCollection
	}
	coll := db.Collection(collection)

	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}},
	})
	if err != nil {
		return nil, errors.Join(history.ErrStorage, err)
	}
	return &Store{coll: coll, now: time.Now}, nil
}

func (s *Store) Save(ctx context.Context, records ...history.Record) error {
	if len(records) == 0 {
		return nil
	}

	now := s.now()
	docs := make([]any, 0, len(records))
	for _, r := range records {
		r, err := history.Prepare(r, now)
		if err != nil {
			return err
		}
		docs = append(docs, document{
			ID:        r.ID.String(),
			Token:     r.Token,
			Type:      string(r.Type),
			Payload:   r.Payload,
			ExpiresAt: r.ExpiresAt,
			CreatedAt: r.CreatedAt,
		})
	}

	if _, err := s.coll.InsertMany(ctx, docs); err != nil {
		return errors.Join(history.ErrStorage, err)
	}
	return nil
}

func (s *Store) List(ctx context.Context, limit int) ([]history.Record, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(int64(history.NormalizeLimit(limit)))

	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, errors.Join(history.ErrStorage, err)
	}

	var docs []document
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errors.Join(history.ErrStorage, err)
	}

	records := make([]history.Record, 0, len(docs))
	for _, d := range docs {
		r, err := d.record()
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, nil
}

func (s *Store) Get(ctx context.Context, id uuid.UUID) (history.Record, error) {
	var d document
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return history.Record{}, history.ErrNotFound
	}
	if err != nil {
		return history.Record{}, errors.Join(history.ErrStorage, err)
	}
	return d.record()
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return errors.Join(history.ErrStorage, err)
	}
	if res.DeletedCount == 0 {
		return history.ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAll(ctx context.Context) error {
	if _, err := s.coll.DeleteMany(ctx, bson.D{}); err != nil {
		return errors.Join(history.ErrStorage, err)
	}
	return nil
}

// Healthcheck pings the deployment.
func (s *Store) Healthcheck(ctx context.Context) error {
	if err := s.coll.Database().Client().Ping(ctx, nil); err != nil {
		return errors.Join(history.ErrStorage, err)
	}
	return nil
}

func (d document) record() (history.Record, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return history.Record{}, errors.Join(history.ErrStorage, err)
	}

	r := history.Record{
		ID:        id,
		Token:     d.Token,
		Type:      history.Type(d.Type),
		Payload:   jwt.Payload(d.Payload).Clone(),
		CreatedAt: d.CreatedAt.UTC(),
	}
	if d.ExpiresAt != nil {
		exp := d.ExpiresAt.UTC()
		r.ExpiresAt = &exp
	}
	return r, nil
}
