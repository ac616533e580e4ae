// internal/app/store/invitations/invitationstore.go
package invitationstore

import (
	"context"
	"time"

	"github.com/lumenarts/lumenhub/internal/domain/models"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("invitations")}
}

func (s *Store) Create(ctx context.Context, inv models.Invitation) (models.Invitation, error) {
	inv.ID = primitive.NewObjectID()
	inv.EmailCI = text.Fold(inv.Email)
	inv.CreatedAt = time.Now().UTC()
	if _, err := s.c.InsertOne(ctx, inv); err != nil {
		return models.Invitation{}, err
	}
	return inv, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Invitation, error) {
	var inv models.Invitation
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&inv); err != nil {
		return models.Invitation{}, err
	}
	return inv, nil
}

// GetPendingByEmail returns the newest unaccepted invitation for an email.
func (s *Store) GetPendingByEmail(ctx context.Context, email string) (models.Invitation, error) {
	var inv models.Invitation
	filter := bson.M{"email_ci": text.Fold(email), "accepted_at": bson.M{"$exists": false}}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if err := s.c.FindOne(ctx, filter, opts).Decode(&inv); err != nil {
		return models.Invitation{}, err
	}
	return inv, nil
}

// MarkAccepted records acceptance. Returns matched count so callers can
// detect an invitation accepted concurrently.
func (s *Store) MarkAccepted(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "accepted_at": bson.M{"$exists": false}},
		bson.M{"$set": bson.M{"accepted_at": time.Now().UTC()}})
	if err != nil {
		return 0, err
	}
	return res.MatchedCount, nil
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
