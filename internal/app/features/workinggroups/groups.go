// internal/app/features/workinggroups/groups.go

package workinggroups

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/features/respond"
	groupstore "github.com/lumenarts/lumenhub/internal/app/store/workinggroups"
	"github.com/lumenarts/lumenhub/internal/app/system/authz"
	"github.com/lumenarts/lumenhub/internal/app/system/timeouts"
	"github.com/lumenarts/lumenhub/internal/app/system/trash"
	"github.com/lumenarts/lumenhub/internal/domain/models"
)

// List handles GET /working-groups. Visitors see public groups; signed-in
// users see everything.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	_, _, _, signedIn := authz.UserCtx(r)
	groups, err := h.Groups.List(ctx, !signedIn)
	if err != nil {
		h.Log.Error("list working groups", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"working_groups": groups,
		"total":          len(groups),
	})
}

// Get handles GET /working-groups/{slug}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "working group not found")
			return
		}
		h.Log.Error("load working group", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if g.Deleted {
		respond.Error(w, http.StatusNotFound, "working group not found")
		return
	}

	respond.JSON(w, http.StatusOK, g)
}

type createGroupRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
	Coordinator string `json:"coordinator_id"`
}

// Create handles POST /working-groups (admin only). A Drive folder is
// created for the group when Drive is configured; folder failure does
// not fail group creation.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !authz.Can(role, authz.ActionManageGroups) {
		respond.Error(w, http.StatusForbidden, "forbidden")
		return
	}

	var req createGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respond.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	coordinatorID, err := primitive.ObjectIDFromHex(req.Coordinator)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid coordinator_id")
		return
	}
	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}
	if visibility != models.VisibilityPublic && visibility != models.VisibilityPrivate {
		respond.Error(w, http.StatusBadRequest, "invalid visibility")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	g := models.WorkingGroup{
		Name:          req.Name,
		Slug:          req.Slug,
		Description:   req.Description,
		CoordinatorID: coordinatorID,
		MemberIDs:     []primitive.ObjectID{coordinatorID},
		Visibility:    visibility,
		Active:        true,
	}

	created, err := h.Groups.Create(ctx, g)
	if err != nil {
		if errors.Is(err, groupstore.ErrDuplicateSlug) {
			respond.Error(w, http.StatusConflict, "a working group with this slug already exists")
			return
		}
		h.Log.Error("create working group", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if h.Drive != nil {
		folderID, err := h.Drive.CreateFolder(ctx, h.RootFolderID, created.Name)
		if err != nil {
			h.Log.Warn("create drive folder for group failed",
				zap.String("group", created.Slug),
				zap.Error(err))
		} else if err := h.Groups.SetDriveFolderID(ctx, created.ID, folderID); err != nil {
			h.Log.Warn("record drive folder id failed",
				zap.String("group", created.Slug),
				zap.Error(err))
		} else {
			created.DriveFolderID = folderID
		}
	}

	respond.JSON(w, http.StatusCreated, created)
}

type updateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Visibility  string `json:"visibility"`
}

// Update handles PATCH /working-groups/{id} (admin only).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !authz.Can(role, authz.ActionManageGroups) {
		respond.Error(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req updateGroupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		respond.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Visibility != models.VisibilityPublic && req.Visibility != models.VisibilityPrivate {
		respond.Error(w, http.StatusBadRequest, "invalid visibility")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Groups.UpdateInfo(ctx, id, req.Name, req.Description, req.Visibility); err != nil {
		h.Log.Error("update working group", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"id": id.Hex()})
}

type memberRequest struct {
	UserID string `json:"user_id"`
}

// AddMember handles POST /working-groups/{id}/members (admin only).
func (h *Handler) AddMember(w http.ResponseWriter, r *http.Request) {
	h.changeMembership(w, r, h.Groups.AddMember)
}

// RemoveMember handles DELETE /working-groups/{id}/members (admin only).
func (h *Handler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	h.changeMembership(w, r, h.Groups.RemoveMember)
}

func (h *Handler) changeMembership(w http.ResponseWriter, r *http.Request, op func(context.Context, primitive.ObjectID, primitive.ObjectID) error) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !authz.Can(role, authz.ActionManageGroups) {
		respond.Error(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req memberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid user_id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := op(ctx, id, userID); err != nil {
		h.Log.Error("change group membership", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"id": id.Hex()})
}

// Delete handles DELETE /working-groups/{id}. The group, its threads,
// and their posts go to the trash together.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res, err := h.Trash.DeleteWorkingGroup(ctx, id, trash.Actor{ID: userID, Role: role})
	if err != nil {
		writeTrashError(w, err)
		return
	}

	respond.JSONCounts(w, http.StatusOK, res)
}
