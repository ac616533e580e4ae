// internal/app/features/forum/posts.go

package forum

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/features/respond"
	"github.com/lumenarts/lumenhub/internal/app/system/authz"
	"github.com/lumenarts/lumenhub/internal/app/system/htmlsanitize"
	"github.com/lumenarts/lumenhub/internal/app/system/timeouts"
	"github.com/lumenarts/lumenhub/internal/app/system/trash"
	"github.com/lumenarts/lumenhub/internal/domain/models"
)

type attachmentInput struct {
	FileName    string `json:"file_name"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
	Backend     string `json:"backend"`
	ObjectKey   string `json:"object_key,omitempty"`
	DriveFileID string `json:"drive_file_id,omitempty"`
}

type createPostRequest struct {
	Content     string            `json:"content"`
	Attachments []attachmentInput `json:"attachments"`
}

// CreatePost handles POST /forum/threads/{id}/posts.
//
// Drive-backed attachments are only accepted on threads that belong to a
// working group, because disposing them later needs the group's Drive
// folder as a destination.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	threadID, ok := urlID(w, r)
	if !ok {
		return
	}

	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	content := htmlsanitize.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		respond.Error(w, http.StatusBadRequest, "content is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	th, err := h.Threads.GetByID(ctx, threadID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "thread not found")
			return
		}
		h.Log.Error("load thread for post", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if th.Deleted {
		respond.Error(w, http.StatusNotFound, "thread not found")
		return
	}
	if th.Status != models.ThreadOpen {
		respond.Error(w, http.StatusConflict, "thread is closed")
		return
	}

	atts := make([]models.Attachment, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		switch a.Backend {
		case models.BackendObjectStorage:
			if a.ObjectKey == "" {
				respond.Error(w, http.StatusBadRequest, "object attachment missing object_key")
				return
			}
		case models.BackendExternalDrive:
			if a.DriveFileID == "" {
				respond.Error(w, http.StatusBadRequest, "drive attachment missing drive_file_id")
				return
			}
			if len(th.WorkingGroups) == 0 {
				respond.Error(w, http.StatusBadRequest, "drive attachments are not allowed on general threads")
				return
			}
		default:
			respond.Error(w, http.StatusBadRequest, "unknown attachment backend")
			return
		}
		atts = append(atts, models.Attachment{
			FileName:    a.FileName,
			URL:         a.URL,
			ContentType: a.ContentType,
			Size:        a.Size,
			Backend:     a.Backend,
			ObjectKey:   a.ObjectKey,
			DriveFileID: a.DriveFileID,
		})
	}

	created, err := h.Posts.Create(ctx, models.Post{
		ThreadID:    threadID,
		AuthorID:    userID,
		Content:     content,
		Attachments: atts,
	})
	if err != nil {
		h.Log.Error("create post", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.Threads.IncReplyCount(ctx, threadID, 1); err != nil {
		h.Log.Warn("bump reply count", zap.Error(err))
	}

	respond.JSON(w, http.StatusCreated, created)
}

type editPostRequest struct {
	Content string `json:"content"`
}

// EditPost handles PATCH /forum/posts/{id}. Authors edit their own
// posts; moderators may edit any.
func (h *Handler) EditPost(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req editPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	content := htmlsanitize.Sanitize(strings.TrimSpace(req.Content))
	if content == "" {
		respond.Error(w, http.StatusBadRequest, "content is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p, err := h.Posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "post not found")
			return
		}
		h.Log.Error("load post", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if p.Deleted {
		respond.Error(w, http.StatusNotFound, "post not found")
		return
	}
	if p.AuthorID != userID && !authz.Can(role, authz.ActionModerateThread) {
		respond.Error(w, http.StatusForbidden, "forbidden")
		return
	}

	if err := h.Posts.UpdateContent(ctx, id, content); err != nil {
		h.Log.Error("update post", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]string{"id": id.Hex()})
}

// DeletePost handles DELETE /forum/posts/{id}.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
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

	res, err := h.Trash.DeletePost(ctx, id, trash.Actor{ID: userID, Role: role})
	if err != nil {
		writeTrashError(w, err)
		return
	}

	respond.JSONCounts(w, http.StatusOK, res)
}
