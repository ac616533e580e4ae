// internal/app/store/threads/threadstore.go
package threadstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lumenarts/lumenhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateSlug = errors.New("a thread with this slug already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("threads")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Thread, error) {
	var t models.Thread
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		return models.Thread{}, err
	}
	return t, nil
}

func (s *Store) Create(ctx context.Context, t models.Thread) (models.Thread, error) {
	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.Slug = strings.ToLower(strings.TrimSpace(t.Slug))
	if t.Status == "" {
		t.Status = models.ThreadOpen
	}
	if t.WorkingGroups == nil {
		t.WorkingGroups = []string{}
	}
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, t)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Thread{}, ErrDuplicateSlug
		}
		return models.Thread{}, err
	}
	return t, nil
}

// List returns non-deleted threads, pinned first, newest first within each
// pin state. groupSlug filters to one working group; empty lists the
// general discussion area (threads scoped to no group).
func (s *Store) List(ctx context.Context, groupSlug string, limit, skip int64) ([]models.Thread, error) {
	filter := bson.M{"deleted": false}
	if groupSlug != "" {
		filter["working_groups"] = strings.ToLower(groupSlug)
	} else {
		filter["working_groups"] = bson.M{"$size": 0}
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "pinned", Value: -1}, {Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Thread
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

func (s *Store) SetPinned(ctx context.Context, id primitive.ObjectID, pinned bool) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"pinned":     pinned,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

func (s *Store) IncViewCount(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"view_count": 1}})
	return err
}

// IncReplyCount adjusts the non-deleted post counter. Decrements are
// guarded so the counter never goes below zero.
func (s *Store) IncReplyCount(ctx context.Context, id primitive.ObjectID, delta int64) error {
	filter := bson.M{"_id": id}
	if delta < 0 {
		filter["reply_count"] = bson.M{"$gt": 0}
	}
	_, err := s.c.UpdateOne(ctx, filter, bson.M{"$inc": bson.M{"reply_count": delta}})
	return err
}

// MarkDeleted sets the soft-delete triple on a not-yet-deleted thread.
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

// MarkDeletedByGroupSlug soft-deletes every non-deleted thread scoped to
// the given working-group slug and returns the threads that were marked.
// The returned slice is read before the update so callers can cascade to
// the threads' posts.
func (s *Store) MarkDeletedByGroupSlug(ctx context.Context, slug string, by primitive.ObjectID, at time.Time) ([]models.Thread, error) {
	filter := bson.M{"working_groups": strings.ToLower(slug), "deleted": false}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var marked []models.Thread
	if err := cur.All(ctx, &marked); err != nil {
		return nil, err
	}
	if len(marked) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, len(marked))
	for i, t := range marked {
		ids[i] = t.ID
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

// ClearDeleted resets the soft-delete triple on a deleted thread.
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

// RestoreByGroupSlug restores threads that were deleted by a group cascade,
// identified by a deleted_at equal to the group's own deletion timestamp.
// Threads deleted independently before the cascade keep their own
// deleted_at and are left alone. Returns the threads restored.
func (s *Store) RestoreByGroupSlug(ctx context.Context, slug string, at time.Time) ([]models.Thread, error) {
	filter := bson.M{
		"working_groups": strings.ToLower(slug),
		"deleted":        true,
		"deleted_at":     at,
	}
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	var restored []models.Thread
	if err := cur.All(ctx, &restored); err != nil {
		return nil, err
	}
	if len(restored) == 0 {
		return nil, nil
	}

	ids := make([]primitive.ObjectID, len(restored))
	for i, t := range restored {
		ids[i] = t.ID
	}
	_, err = s.c.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$in": ids}},
		bson.M{
			"$set":   bson.M{"deleted": false, "updated_at": time.Now().UTC()},
			"$unset": bson.M{"deleted_at": "", "deleted_by": ""},
		})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

// ListDeleted returns soft-deleted threads, most recently deleted first.
func (s *Store) ListDeleted(ctx context.Context) ([]models.Thread, error) {
	opts := options.Find().SetSort(bson.D{{Key: "deleted_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"deleted": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Thread
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindExpiredByGroupSlug returns threads scoped to the slug that are
// soft-deleted with a stamp strictly older than the cutoff. Used by the
// retention sweeper when purging an expired group; threads that are live
// (restored into another group) or deleted too recently are left for
// their own expiry.
func (s *Store) FindExpiredByGroupSlug(ctx context.Context, slug string, cutoff time.Time) ([]models.Thread, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"working_groups": strings.ToLower(slug),
		"deleted":        true,
		"deleted_at":     bson.M{"$lt": cutoff},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Thread
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindExpired returns threads soft-deleted strictly before the cutoff.
func (s *Store) FindExpired(ctx context.Context, cutoff time.Time) ([]models.Thread, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"deleted":    true,
		"deleted_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Thread
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Purge permanently removes a thread document. One-way.
func (s *Store) Purge(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// PurgeByIDs permanently removes a batch of threads.
func (s *Store) PurgeByIDs(ctx context.Context, ids []primitive.ObjectID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.c.DeleteMany(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
