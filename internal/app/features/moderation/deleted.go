// internal/app/features/moderation/deleted.go

package moderation

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/features/respond"
	"github.com/lumenarts/lumenhub/internal/app/system/authz"
	"github.com/lumenarts/lumenhub/internal/app/system/timeouts"
	"github.com/lumenarts/lumenhub/internal/app/system/trash"
)

// Deleted handles GET /admin/moderation/deleted. It lists everything in
// the trash with time remaining until permanent purge.
func (h *Handler) Deleted(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, err := h.Trash.ListDeleted(ctx, trash.Actor{ID: userID, Role: role})
	if err != nil {
		h.Log.Warn("list deleted failed", zap.Error(err))
		writeTrashError(w, err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"items": items,
		"total": len(items),
	})
}
