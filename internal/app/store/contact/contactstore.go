// internal/app/store/contact/contactstore.go
package contactstore

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
	return &Store{c: db.Collection("contact_messages")}
}

func (s *Store) Create(ctx context.Context, m models.ContactMessage) (models.ContactMessage, error) {
	m.ID = primitive.NewObjectID()
	m.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.ContactMessage{}, err
	}
	return m, nil
}

// List returns messages newest first, for the admin inbox.
func (s *Store) List(ctx context.Context, limit, skip int64) ([]models.ContactMessage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.ContactMessage
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
