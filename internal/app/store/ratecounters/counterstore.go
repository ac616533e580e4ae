// internal/app/store/ratecounters/counterstore.go
package ratecounterstore

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store keeps fixed-window request counters in a TTL-indexed collection,
// so limits survive process restarts and are shared across instances.
// EnsureSchema creates the expires_at TTL index.
type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("rate_counters")}
}

// Incr increments the counter for key within the window beginning at
// windowStart and returns the count after the increment. The document is
// created on first use; expiresAt feeds the TTL index so stale windows
// are removed by the server.
func (s *Store) Incr(ctx context.Context, key string, windowStart, expiresAt time.Time) (int64, error) {
	id := fmt.Sprintf("%s:%d", key, windowStart.Unix())

	var doc struct {
		Count int64 `bson:"count"`
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{
			"$inc": bson.M{"count": 1},
			"$setOnInsert": bson.M{
				"key":          key,
				"window_start": windowStart,
				"expires_at":   expiresAt,
			},
		},
		opts,
	).Decode(&doc)
	if err != nil {
		return 0, err
	}
	return doc.Count, nil
}

// Reset clears all windows for a key.
func (s *Store) Reset(ctx context.Context, key string) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"key": key})
	return err
}
