// internal/app/features/moderation/cleanup.go

package moderation

import (
	"context"
	"crypto/subtle"
	"net/http"

	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/features/respond"
	"github.com/lumenarts/lumenhub/internal/app/system/authz"
	"github.com/lumenarts/lumenhub/internal/app/system/timeouts"
)

// Cleanup handles GET /admin/moderation/cleanup. It runs a retention
// sweep immediately. Besides signed-in admins, an external scheduler can
// call it with the shared secret in X-Cleanup-Secret, or with the
// X-Scheduler-Signal header from the platform's internal cron.
func (h *Handler) Cleanup(w http.ResponseWriter, r *http.Request) {
	if !h.cleanupAuthorized(r) {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Sweep())
	defer cancel()

	res, err := h.Trash.Sweep(ctx)
	if err != nil {
		h.Log.Error("cleanup sweep failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "sweep failed")
		return
	}

	respond.JSONCounts(w, http.StatusOK, res)
}

func (h *Handler) cleanupAuthorized(r *http.Request) bool {
	if h.CleanupSecret != "" {
		secret := r.Header.Get("X-Cleanup-Secret")
		if secret != "" && subtle.ConstantTimeCompare([]byte(secret), []byte(h.CleanupSecret)) == 1 {
			return true
		}
	}
	if r.Header.Get("X-Scheduler-Signal") != "" {
		return true
	}
	if authz.IsAdmin(r) {
		return true
	}
	return false
}
