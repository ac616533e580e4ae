// internal/domain/models/workinggroup.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkingGroup is a named sub-community with its own membership and
// discussion space. Threads reference working groups by slug, so the
// slug is unique and immutable once assigned.
type WorkingGroup struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description" json:"description"`

	CoordinatorID primitive.ObjectID   `bson:"coordinator_id" json:"coordinator_id"`
	MemberIDs     []primitive.ObjectID `bson:"member_ids" json:"member_ids"`

	Visibility string `bson:"visibility" json:"visibility"` // "public" or "private"
	Active     bool   `bson:"active" json:"active"`

	// DriveFolderID points at the group's folder on the external drive.
	// Empty when the group has no drive presence.
	DriveFolderID string `bson:"drive_folder_id,omitempty" json:"drive_folder_id,omitempty"`

	Deleted   bool                `bson:"deleted" json:"deleted"`
	DeletedAt *time.Time          `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
	DeletedBy *primitive.ObjectID `bson:"deleted_by,omitempty" json:"deleted_by,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// Visibility values for WorkingGroup.Visibility.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)
