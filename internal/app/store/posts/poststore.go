// internal/app/store/posts/poststore.go
package poststore

import (
	"context"
	"time"

	"github.com/lumenarts/lumenhub/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("posts")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Post, error) {
	var p models.Post
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

func (s *Store) Create(ctx context.Context, p models.Post) (models.Post, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	if p.Attachments == nil {
		p.Attachments = []models.Attachment{}
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Post{}, err
	}
	return p, nil
}

// ListByThread returns non-deleted posts in a thread, oldest first.
func (s *Store) ListByThread(ctx context.Context, threadID primitive.ObjectID, limit, skip int64) ([]models.Post, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: 1}}).
		SetLimit(limit).
		SetSkip(skip)
	cur, err := s.c.Find(ctx, bson.M{"thread_id": threadID, "deleted": false}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Post
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateContent replaces a post's content and records the edit.
func (s *Store) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) error {
	now := time.Now().UTC()
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"content":    content,
		"edited":     true,
		"edited_at":  now,
		"updated_at": now,
	}})
	return err
}

// MarkDeleted sets the soft-delete triple on a not-yet-deleted post.
func (s *Store) MarkDeleted(ctx context.Context, id, by primitive.ObjectID, at time.Time) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "deleted": false},
		bson.M{"$set": bson.M{
			"deleted":    true,
			"deleted_at": at,
			"deleted_by": by,
			"updated_at": at,
		}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// MarkDeletedByThreadIDs soft-deletes every non-deleted post under the
// given threads and returns the posts that were marked, read before the
// update so callers can dispose of their attachments.
func (s *Store) MarkDeletedByThreadIDs(ctx context.Context, threadIDs []primitive.ObjectID, by primitive.ObjectID, at time.Time) ([]models.Post, error) {
	if len(threadIDs) == 0 {
		return nil, nil
	}
	filter := bson.M{"thread_id": bson.M{"$in": threadIDs}, "deleted": false}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var marked []models.Post
	if err := cur.All(ctx, &marked); err != nil {
		return nil, err
	}
	if len(marked) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, len(marked))
	for i, p := range marked {
		ids[i] = p.ID
	}
	_, err = s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{"$set": bson.M{
			"deleted":    true,
			"deleted_at": at,
			"deleted_by": by,
			"updated_at": at,
		}})
	if err != nil {
		return nil, err
	}
	return marked, nil
}

// ClearDeleted resets the soft-delete triple on a deleted post.
func (s *Store) ClearDeleted(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "deleted": true},
		bson.M{
			"$set":   bson.M{"deleted": false, "updated_at": time.Now().UTC()},
			"$unset": bson.M{"deleted_at": "", "deleted_by": ""},
		})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

// RestoreByThreadIDs restores posts deleted by a cascade, identified by a
// deleted_at equal to the cascade timestamp. Independently deleted posts
// keep their own deleted_at and stay deleted.
func (s *Store) RestoreByThreadIDs(ctx context.Context, threadIDs []primitive.ObjectID, at time.Time) (int64, error) {
	if len(threadIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.UpdateMany(ctx,
		bson.M{
			"thread_id":  bson.M{"$in": threadIDs},
			"deleted":    true,
			"deleted_at": at,
		},
		bson.M{
			"$set":   bson.M{"deleted": false, "updated_at": time.Now().UTC()},
			"$unset": bson.M{"deleted_at": "", "deleted_by": ""},
		})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// ListDeleted returns soft-deleted posts, most recently deleted first.
func (s *Store) ListDeleted(ctx context.Context) ([]models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "deleted_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"deleted": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Post
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByThread counts non-deleted posts in a thread.
func (s *Store) CountByThread(ctx context.Context, threadID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"thread_id": threadID, "deleted": false})
}

// FindExpired returns posts soft-deleted strictly before the cutoff.
func (s *Store) FindExpired(ctx context.Context, cutoff time.Time) ([]models.Post, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"deleted":    true,
		"deleted_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Post
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Purge permanently removes a post document. One-way.
func (s *Store) Purge(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// PurgeByThreadIDs permanently removes every post under the given threads.
func (s *Store) PurgeByThreadIDs(ctx context.Context, threadIDs []primitive.ObjectID) (int64, error) {
	if len(threadIDs) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"thread_id": bson.M{"$in": threadIDs}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
