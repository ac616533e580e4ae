// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role values for User.Role.
//
// Admin is the highest administrative role: only admins may delete or
// restore working groups and threads. Moderators may moderate individual
// posts. Members have no moderation powers.
const (
	RoleAdmin     = "admin"
	RoleModerator = "moderator"
	RoleMember    = "member"
)

// Status values shared by users and working groups.
const (
	StatusActive   = "active"
	StatusDisabled = "disabled"
)

// User is a member of the organization.
type User struct {
	ID         primitive.ObjectID `bson:"_id" json:"id"`
	FullName   string             `bson:"full_name" json:"full_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"`
	Email      string             `bson:"email" json:"email"`
	EmailCI    string             `bson:"email_ci" json:"-"`

	Role   string `bson:"role" json:"role"`
	Status string `bson:"status" json:"status"`

	// Directory profile fields, shown on the members page when the
	// user opts in.
	Discipline string `bson:"discipline,omitempty" json:"discipline,omitempty"`
	Bio        string `bson:"bio,omitempty" json:"bio,omitempty"`
	Website    string `bson:"website,omitempty" json:"website,omitempty"`
	Listed     bool   `bson:"listed" json:"listed"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
