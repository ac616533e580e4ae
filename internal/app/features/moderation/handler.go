// internal/app/features/moderation/handler.go

// Package moderation exposes the trash surface: restoring soft-deleted
// content, listing what is in the trash, and triggering the retention
// cleanup.
package moderation

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/features/respond"
	"github.com/lumenarts/lumenhub/internal/app/system/trash"
)

// Handler holds dependencies for the moderation endpoints.
type Handler struct {
	Trash         *trash.Service
	CleanupSecret string
	Log           *zap.Logger
}

// NewHandler constructs a moderation Handler.
func NewHandler(svc *trash.Service, cleanupSecret string, logger *zap.Logger) *Handler {
	return &Handler{
		Trash:         svc,
		CleanupSecret: cleanupSecret,
		Log:           logger,
	}
}

// writeTrashError maps service errors onto HTTP statuses.
func writeTrashError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, trash.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, trash.ErrForbidden):
		respond.Error(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, trash.ErrAlreadyDeleted):
		respond.Error(w, http.StatusConflict, "already deleted")
	case errors.Is(err, trash.ErrNotDeleted):
		respond.Error(w, http.StatusConflict, "not deleted")
	case errors.Is(err, trash.ErrParentDeleted):
		respond.Error(w, http.StatusConflict, "parent is deleted")
	default:
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}
