// internal/app/features/invitations/revoke.go
package invitations

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/features/respond"
	"github.com/lumenarts/lumenhub/internal/app/system/authz"
	"github.com/lumenarts/lumenhub/internal/app/system/timeouts"
)

// Revoke handles DELETE /invitations/{id} (admin only).
func (h *Handler) Revoke(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !authz.Can(role, authz.ActionInviteMembers) {
		respond.Error(w, http.StatusForbidden, "forbidden")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Invitations.Delete(ctx, id)
	if err != nil {
		h.Log.Error("revoke invitation", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if n == 0 {
		respond.Error(w, http.StatusNotFound, "invitation not found")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"id": id.Hex()})
}
