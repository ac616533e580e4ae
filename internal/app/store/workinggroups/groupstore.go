// internal/app/store/workinggroups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/lumenarts/lumenhub/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateSlug = errors.New("a working group with this slug already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("working_groups")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.WorkingGroup, error) {
	var g models.WorkingGroup
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		return models.WorkingGroup{}, err
	}
	return g, nil
}

func (s *Store) GetBySlug(ctx context.Context, slug string) (models.WorkingGroup, error) {
	var g models.WorkingGroup
	filter := bson.M{"slug": normalizeSlug(slug)}
	if err := s.c.FindOne(ctx, filter).Decode(&g); err != nil {
		return models.WorkingGroup{}, err
	}
	return g, nil
}

func (s *Store) Create(ctx context.Context, g models.WorkingGroup) (models.WorkingGroup, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	g.Slug = normalizeSlug(g.Slug)
	if g.Visibility == "" {
		g.Visibility = models.VisibilityPublic
	}
	g.Active = true
	if g.MemberIDs == nil {
		g.MemberIDs = []primitive.ObjectID{}
	}
	g.CreatedAt = now
	g.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, g)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.WorkingGroup{}, ErrDuplicateSlug
		}
		return models.WorkingGroup{}, err
	}
	return g, nil
}

func (s *Store) UpdateInfo(ctx context.Context, id primitive.ObjectID, name, desc, visibility string) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if strings.TrimSpace(name) != "" {
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	// Description can be cleared (set to empty)
	set["description"] = desc
	if visibility != "" {
		set["visibility"] = visibility
	}
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	return err
}

// SetDriveFolderID records the group's external drive folder reference.
func (s *Store) SetDriveFolderID(ctx context.Context, id primitive.ObjectID, folderID string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"drive_folder_id": folderID,
		"updated_at":      time.Now().UTC(),
	}})
	return err
}

func (s *Store) AddMember(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$addToSet": bson.M{"member_ids": userID},
		"$set":      bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

func (s *Store) RemoveMember(ctx context.Context, id, userID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"member_ids": userID},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// List returns non-deleted groups, optionally restricted to public ones.
func (s *Store) List(ctx context.Context, publicOnly bool) ([]models.WorkingGroup, error) {
	filter := bson.M{"deleted": false}
	if publicOnly {
		filter["visibility"] = models.VisibilityPublic
	}
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.WorkingGroup
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkDeleted sets the soft-delete triple on a not-yet-deleted group.
// Returns the number of documents matched (0 when the group is missing
// or already deleted).
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

// ClearDeleted resets the soft-delete triple on a deleted group.
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

// ListDeleted returns soft-deleted groups, most recently deleted first.
func (s *Store) ListDeleted(ctx context.Context) ([]models.WorkingGroup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "deleted_at", Value: -1}})
	cur, err := s.c.Find(ctx, bson.M{"deleted": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.WorkingGroup
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FindExpired returns groups soft-deleted strictly before the cutoff.
func (s *Store) FindExpired(ctx context.Context, cutoff time.Time) ([]models.WorkingGroup, error) {
	cur, err := s.c.Find(ctx, bson.M{
		"deleted":    true,
		"deleted_at": bson.M{"$lt": cutoff},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.WorkingGroup
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Purge permanently removes a group document. One-way.
func (s *Store) Purge(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func normalizeSlug(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
