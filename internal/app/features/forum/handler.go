// internal/app/features/forum/handler.go

// Package forum serves the discussion boards: threads scoped to working
// groups or the general board, posts with attachments, and the
// moderation entry points for deleting them.
package forum

import (
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/features/respond"
	poststore "github.com/lumenarts/lumenhub/internal/app/store/posts"
	threadstore "github.com/lumenarts/lumenhub/internal/app/store/threads"
	groupstore "github.com/lumenarts/lumenhub/internal/app/store/workinggroups"
	"github.com/lumenarts/lumenhub/internal/app/system/trash"
)

// Handler holds dependencies for the forum endpoints.
type Handler struct {
	Threads *threadstore.Store
	Posts   *poststore.Store
	Groups  *groupstore.Store
	Trash   *trash.Service
	Files   storage.Store
	Log     *zap.Logger
}

// NewHandler constructs a forum Handler.
func NewHandler(threads *threadstore.Store, posts *poststore.Store, groups *groupstore.Store, svc *trash.Service, files storage.Store, logger *zap.Logger) *Handler {
	return &Handler{
		Threads: threads,
		Posts:   posts,
		Groups:  groups,
		Trash:   svc,
		Files:   files,
		Log:     logger,
	}
}

// urlID parses the {id} route parameter. A false return means the
// response has already been written.
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
