// internal/app/features/invitations/handler.go

// Package invitations implements the invite-only onboarding flow. Admins
// create invitations; the raw token goes out by email and only its bcrypt
// hash is stored, so a database leak does not leak usable invites.
package invitations

import (
	"go.uber.org/zap"

	invitationstore "github.com/lumenarts/lumenhub/internal/app/store/invitations"
	userstore "github.com/lumenarts/lumenhub/internal/app/store/users"
)

const (
	// tokenBytes is the raw entropy of an invitation token (hex-encoded
	// to twice this length on the wire).
	tokenBytes = 32

	// bcryptCost for hashing invitation tokens.
	bcryptCost = 10
)

// Handler holds dependencies for the invitation endpoints.
type Handler struct {
	Invitations *invitationstore.Store
	Users       *userstore.Store
	Log         *zap.Logger
}

// NewHandler constructs an invitations Handler.
func NewHandler(invs *invitationstore.Store, users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Invitations: invs, Users: users, Log: logger}
}
