// internal/domain/models/contactmessage.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContactMessage is a public contact-form submission.
type ContactMessage struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	Name    string             `bson:"name" json:"name"`
	Email   string             `bson:"email" json:"email"`
	Message string             `bson:"message" json:"message"`
	IP      string             `bson:"ip" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
