// internal/domain/models/post.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attachment storage backends.
const (
	BackendObjectStorage = "object-storage"
	BackendExternalDrive = "external-drive"
)

// Attachment is a file attached to a post, embedded in the post document.
// Exactly one of ObjectKey or DriveFileID is set, matching Backend.
type Attachment struct {
	FileName    string `bson:"file_name" json:"file_name"`
	URL         string `bson:"url" json:"url"`
	ContentType string `bson:"content_type" json:"content_type"`
	Size        int64  `bson:"size" json:"size"`

	Backend     string `bson:"backend" json:"backend"`
	ObjectKey   string `bson:"object_key,omitempty" json:"object_key,omitempty"`
	DriveFileID string `bson:"drive_file_id,omitempty" json:"drive_file_id,omitempty"`
}

// Post is a single message in a thread. Content is sanitized HTML.
type Post struct {
	ID       primitive.ObjectID `bson:"_id" json:"id"`
	ThreadID primitive.ObjectID `bson:"thread_id" json:"thread_id"`
	AuthorID primitive.ObjectID `bson:"author_id" json:"author_id"`

	Content     string       `bson:"content" json:"content"`
	Attachments []Attachment `bson:"attachments,omitempty" json:"attachments,omitempty"`

	Edited   bool       `bson:"edited" json:"edited"`
	EditedAt *time.Time `bson:"edited_at,omitempty" json:"edited_at,omitempty"`

	Deleted   bool                `bson:"deleted" json:"deleted"`
	DeletedAt *time.Time          `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	DeletedBy *primitive.ObjectID `bson:"deleted_by,omitempty" json:"deleted_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
