// internal/app/features/moderation/restore.go

package moderation

import (
	"context"
	"encoding/json"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/features/respond"
	"github.com/lumenarts/lumenhub/internal/app/system/authz"
	"github.com/lumenarts/lumenhub/internal/app/system/timeouts"
	"github.com/lumenarts/lumenhub/internal/app/system/trash"
)

type restoreRequest struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Restore handles POST /admin/moderation/restore.
//
// Body: { "type": "working_group" | "thread" | "post", "id": "<hex>" }
func (h *Handler) Restore(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req restoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	switch req.Type {
	case trash.KindWorkingGroup, trash.KindThread, trash.KindPost:
	default:
		respond.Error(w, http.StatusBadRequest, "invalid type")
		return
	}
	id, err := primitive.ObjectIDFromHex(req.ID)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	res, err := h.Trash.Restore(ctx, req.Type, id, trash.Actor{ID: userID, Role: role})
	if err != nil {
		h.Log.Warn("restore failed",
			zap.String("type", req.Type),
			zap.String("id", req.ID),
			zap.Error(err))
		writeTrashError(w, err)
		return
	}

	respond.JSONCounts(w, http.StatusOK, res)
}
