// internal/app/features/workinggroups/handler.go

// Package workinggroups manages the organization's working groups:
// creation with a Drive folder, membership, and deletion into the trash.
package workinggroups

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/features/respond"
	groupstore "github.com/lumenarts/lumenhub/internal/app/store/workinggroups"
	"github.com/lumenarts/lumenhub/internal/app/system/trash"
)

// FolderCreator makes Drive folders for new working groups.
type FolderCreator interface {
	CreateFolder(ctx context.Context, parentID, name string) (string, error)
}

// Handler holds dependencies for the working-group endpoints.
type Handler struct {
	Groups       *groupstore.Store
	Trash        *trash.Service
	Drive        FolderCreator
	RootFolderID string
	Log          *zap.Logger
}

// NewHandler constructs a working-groups Handler. drive may be nil when
// Drive integration is not configured; groups are then created without a
// folder.
func NewHandler(groups *groupstore.Store, svc *trash.Service, drive FolderCreator, rootFolderID string, logger *zap.Logger) *Handler {
	return &Handler{
		Groups:       groups,
		Trash:        svc,
		Drive:        drive,
		RootFolderID: rootFolderID,
		Log:          logger,
	}
}

func urlID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

func writeTrashError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, trash.ErrNotFound):
		respond.Error(w, http.StatusNotFound, "not found")
	case errors.Is(err, trash.ErrForbidden):
		respond.Error(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, trash.ErrAlreadyDeleted):
		respond.Error(w, http.StatusConflict, "already deleted")
	default:
		respond.Error(w, http.StatusInternalServerError, "internal error")
	}
}
