// internal/app/system/authz/authz.go

// Package authz centralizes authorization decisions. Handlers and
// services ask Can(role, action) instead of comparing role strings
// inline, so the full capability table lives in one place and is tested
// independently of the HTTP layer.
package authz

import (
	"net/http"
	"strings"

	"github.com/lumenarts/lumenhub/internal/app/system/auth"
	"github.com/lumenarts/lumenhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action names a mutation or privileged read.
type Action string

const (
	ActionDeleteGroup  Action = "group.delete"
	ActionRestoreGroup Action = "group.restore"
	ActionManageGroups Action = "group.manage"

	ActionDeleteThread  Action = "thread.delete"
	ActionRestoreThread Action = "thread.restore"
	ActionModerateThread Action = "thread.moderate"

	ActionDeletePost  Action = "post.delete"
	ActionRestorePost Action = "post.restore"

	ActionViewDeleted Action = "moderation.view_deleted"

	ActionInviteMembers      Action = "members.invite"
	ActionManageMembers      Action = "members.manage"
	ActionManagePublications Action = "publications.manage"
)

// Can reports whether a role may perform an action.
//
// Working-group and thread deletion/restoration are reserved for admins
// (the highest administrative role). Post moderation extends to
// moderators. Members hold no capabilities listed here.
func Can(role string, action Action) bool {
	switch strings.ToLower(role) {
	case models.RoleAdmin:
		return true
	case models.RoleModerator:
		switch action {
		case ActionDeletePost, ActionRestorePost, ActionViewDeleted, ActionModerateThread:
			return true
		}
		return false
	default:
		return false
	}
}

// UserCtx returns the user's role (lowercased), name, Mongo ObjectID, and
// a found flag. If no user is present in context or the user ID is
// malformed, it returns "visitor", "", NilObjectID, false, so ok=true
// always means a valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Name, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// IsModerator reports whether the current request's user is a moderator
// or higher.
func IsModerator(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && (role == models.RoleModerator || role == models.RoleAdmin)
}
