// internal/domain/models/publication.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Publication is a news/announcement item. Body is sanitized HTML.
type Publication struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	Title   string             `bson:"title" json:"title"`
	TitleCI string             `bson:"title_ci" json:"-"`
	Slug    string             `bson:"slug" json:"slug"`
	Body    string             `bson:"body" json:"body"`

	AuthorID primitive.ObjectID `bson:"author_id" json:"author_id"`

	Published   bool       `bson:"published" json:"published"`
	PublishedAt *time.Time `bson:"published_at,omitempty" json:"published_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
