// internal/domain/models/thread.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Thread status labels.
const (
	ThreadOpen     = "open"
	ThreadClosed   = "closed"
	ThreadArchived = "archived"
)

// Thread is a discussion topic. WorkingGroups holds the slugs of the
// working groups the thread is scoped to; an empty list means the thread
// lives in the general (public) discussion area.
type Thread struct {
	ID    primitive.ObjectID `bson:"_id" json:"id"`
	Title string             `bson:"title" json:"title"`
	Slug  string             `bson:"slug" json:"slug"`

	WorkingGroups []string `bson:"working_groups" json:"working_groups"`

	Status string `bson:"status" json:"status"`
	Pinned bool   `bson:"pinned" json:"pinned"`

	// ReplyCount tracks non-deleted posts. Soft-deleting a post
	// decrements it; restoring increments it. Never negative.
	ReplyCount int64 `bson:"reply_count" json:"reply_count"`
	ViewCount  int64 `bson:"view_count" json:"view_count"`

	AuthorID primitive.ObjectID `bson:"author_id" json:"author_id"`

	Deleted   bool                `bson:"deleted" json:"deleted"`
	DeletedAt *time.Time          `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	DeletedBy *primitive.ObjectID `bson:"deleted_by,omitempty" json:"deleted_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
