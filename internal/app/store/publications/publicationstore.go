// internal/app/store/publications/publicationstore.go
package publicationstore

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

var ErrDuplicateSlug = errors.New("a publication with this slug already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("publications")}
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Publication, error) {
	var p models.Publication
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return models.Publication{}, err
	}
	return p, nil
}

func (s *Store) GetBySlug(ctx context.Context, slug string) (models.Publication, error) {
	var p models.Publication
	filter := bson.M{"slug": strings.ToLower(strings.TrimSpace(slug))}
	if err := s.c.FindOne(ctx, filter).Decode(&p); err != nil {
		return models.Publication{}, err
	}
	return p, nil
}

func (s *Store) Create(ctx context.Context, p models.Publication) (models.Publication, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.TitleCI = text.Fold(p.Title)
	p.Slug = strings.ToLower(strings.TrimSpace(p.Slug))
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.c.InsertOne(ctx, p)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Publication{}, ErrDuplicateSlug
		}
		return models.Publication{}, err
	}
	return p, nil
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, title, body string) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"title":      title,
		"title_ci":   text.Fold(title),
		"body":       body,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// SetPublished flips the published flag, stamping published_at the first
// time a publication goes live.
func (s *Store) SetPublished(ctx context.Context, id primitive.ObjectID, published bool) error {
	now := time.Now().UTC()
	update := bson.M{"$set": bson.M{
		"published":  published,
		"updated_at": now,
	}}
	if published {
		update["$set"].(bson.M)["published_at"] = now
	}
	_, err := s.c.UpdateByID(ctx, id, update)
	return err
}

// ListPublished returns live publications, newest first.
func (s *Store) ListPublished(ctx context.Context, limit, skip int64) ([]models.Publication, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "published_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)
	cur, err := s.c.Find(ctx, bson.M{"published": true}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Publication
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAll returns every publication for the admin view, newest first.
func (s *Store) ListAll(ctx context.Context, limit, skip int64) ([]models.Publication, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Publication
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
