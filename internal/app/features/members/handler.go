// internal/app/features/members/handler.go

// Package members serves the public member directory and profile
// management for signed-in members.
package members

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/features/respond"
	userstore "github.com/lumenarts/lumenhub/internal/app/store/users"
	"github.com/lumenarts/lumenhub/internal/app/system/authz"
	"github.com/lumenarts/lumenhub/internal/app/system/timeouts"
	"github.com/lumenarts/lumenhub/internal/domain/models"
)

// Handler holds dependencies for the member directory endpoints.
type Handler struct {
	Users *userstore.Store
	Log   *zap.Logger
}

// NewHandler constructs a members Handler.
func NewHandler(users *userstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Log: logger}
}

// directoryEntry is the public view of a listed member. Email and role
// stay out of the directory.
type directoryEntry struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Discipline string `json:"discipline,omitempty"`
	Bio        string `json:"bio,omitempty"`
	Website    string `json:"website,omitempty"`
}

// Directory handles GET /members. Only active users who opted in appear.
func (h *Handler) Directory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	limit, skip := pagination(r)

	users, err := h.Users.ListDirectory(ctx, limit, skip)
	if err != nil {
		h.Log.Error("list member directory", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	entries := make([]directoryEntry, 0, len(users))
	for _, u := range users {
		entries = append(entries, directoryEntry{
			ID:         u.ID.Hex(),
			FullName:   u.FullName,
			Discipline: u.Discipline,
			Bio:        u.Bio,
			Website:    u.Website,
		})
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"members": entries,
		"total":   len(entries),
	})
}

type profileRequest struct {
	Discipline string `json:"discipline"`
	Bio        string `json:"bio"`
	Website    string `json:"website"`
	Listed     bool   `json:"listed"`
}

// UpdateProfile handles PATCH /members/me. Members manage their own
// directory entry.
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err := h.Users.UpdateProfile(ctx, userID,
		strings.TrimSpace(req.Discipline),
		strings.TrimSpace(req.Bio),
		strings.TrimSpace(req.Website),
		req.Listed)
	if err != nil {
		h.Log.Error("update profile", zap.Error(err), zap.String("user_id", userID.Hex()))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]bool{"listed": req.Listed})
}

type roleRequest struct {
	Role string `json:"role"`
}

// SetRole handles PATCH /members/{id}/role (admin only).
func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !authz.Can(role, authz.ActionManageMembers) {
		respond.Error(w, http.StatusForbidden, "forbidden")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	var req roleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	switch req.Role {
	case models.RoleAdmin, models.RoleModerator, models.RoleMember:
	default:
		respond.Error(w, http.StatusBadRequest, "invalid role")
		return
	}
	if id == userID {
		respond.Error(w, http.StatusConflict, "cannot change your own role")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetRole(ctx, id, req.Role); err != nil {
		h.Log.Error("set member role", zap.Error(err), zap.String("user_id", id.Hex()))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"role": req.Role})
}

func pagination(r *http.Request) (limit, skip int64) {
	limit = 50
	if v, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("skip"), 10, 64); err == nil && v > 0 {
		skip = v
	}
	return limit, skip
}
