// internal/domain/models/invitation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invitation is a pending invite in the onboarding flow. The raw token is
// emailed to the invitee; only its bcrypt hash is stored.
type Invitation struct {
	ID      primitive.ObjectID `bson:"_id" json:"id"`
	Email   string             `bson:"email" json:"email"`
	EmailCI string             `bson:"email_ci" json:"-"`

	Role      string             `bson:"role" json:"role"`
	TokenHash []byte             `bson:"token_hash" json:"-"`
	InvitedBy primitive.ObjectID `bson:"invited_by" json:"invited_by"`

	ExpiresAt  time.Time  `bson:"expires_at" json:"expires_at"`
	AcceptedAt *time.Time `bson:"accepted_at,omitempty" json:"accepted_at,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// Accepted reports whether the invitation has been used.
func (i Invitation) Accepted() bool { return i.AcceptedAt != nil }

// Expired reports whether the invitation is past its expiry.
func (i Invitation) Expired(now time.Time) bool { return now.After(i.ExpiresAt) }
