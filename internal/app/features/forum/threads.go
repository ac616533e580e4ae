// internal/app/features/forum/threads.go

package forum

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/features/respond"
	threadstore "github.com/lumenarts/lumenhub/internal/app/store/threads"
	"github.com/lumenarts/lumenhub/internal/app/system/authz"
	"github.com/lumenarts/lumenhub/internal/app/system/timeouts"
	"github.com/lumenarts/lumenhub/internal/app/system/trash"
	"github.com/lumenarts/lumenhub/internal/domain/models"
)

const defaultPageSize = 25

// ListThreads handles GET /forum/threads. The group query parameter
// scopes the listing to one working group; without it the general board
// is listed.
func (h *Handler) ListThreads(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	groupSlug := strings.TrimSpace(r.URL.Query().Get("group"))
	limit, skip := pagination(r)

	if groupSlug != "" {
		g, err := h.Groups.GetBySlug(ctx, groupSlug)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				respond.Error(w, http.StatusNotFound, "working group not found")
				return
			}
			h.Log.Error("load group for thread list", zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		if g.Deleted {
			respond.Error(w, http.StatusNotFound, "working group not found")
			return
		}
	}

	threads, err := h.Threads.List(ctx, groupSlug, limit, skip)
	if err != nil {
		h.Log.Error("list threads", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"threads": threads,
		"total":   len(threads),
	})
}

type createThreadRequest struct {
	Title         string   `json:"title"`
	WorkingGroups []string `json:"working_groups"`
}

// CreateThread handles POST /forum/threads.
func (h *Handler) CreateThread(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req createThreadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respond.Error(w, http.StatusBadRequest, "title is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	slugs := make([]string, 0, len(req.WorkingGroups))
	for _, s := range req.WorkingGroups {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		g, err := h.Groups.GetBySlug(ctx, s)
		if err != nil || g.Deleted {
			respond.Error(w, http.StatusBadRequest, "unknown working group: "+s)
			return
		}
		slugs = append(slugs, s)
	}

	th := models.Thread{
		Title:         req.Title,
		Slug:          threadSlug(req.Title),
		WorkingGroups: slugs,
		Status:        models.ThreadOpen,
		AuthorID:      userID,
	}

	created, err := h.Threads.Create(ctx, th)
	if err != nil {
		if errors.Is(err, threadstore.ErrDuplicateSlug) {
			respond.Error(w, http.StatusConflict, "a thread with this title already exists")
			return
		}
		h.Log.Error("create thread", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusCreated, created)
}

// GetThread handles GET /forum/threads/{id}. It returns the thread with
// its non-deleted posts and bumps the view counter.
func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	th, err := h.Threads.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "thread not found")
			return
		}
		h.Log.Error("load thread", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if th.Deleted {
		respond.Error(w, http.StatusNotFound, "thread not found")
		return
	}

	limit, skip := pagination(r)
	posts, err := h.Posts.ListByThread(ctx, id, limit, skip)
	if err != nil {
		h.Log.Error("list posts", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := h.Threads.IncViewCount(ctx, id); err != nil {
		h.Log.Warn("bump view count", zap.Error(err))
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"thread": th,
		"posts":  posts,
	})
}

// DeleteThread handles DELETE /forum/threads/{id}. The thread and its
// posts go to the trash; attachments are disposed by backend.
func (h *Handler) DeleteThread(w http.ResponseWriter, r *http.Request) {
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

	res, err := h.Trash.DeleteThread(ctx, id, trash.Actor{ID: userID, Role: role})
	if err != nil {
		writeTrashError(w, err)
		return
	}

	respond.JSONCounts(w, http.StatusOK, res)
}

type threadStatusRequest struct {
	Status string `json:"status"`
}

// SetThreadStatus handles PATCH /forum/threads/{id}/status for
// moderators: open, closed, or archived.
func (h *Handler) SetThreadStatus(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !authz.Can(role, authz.ActionModerateThread) {
		respond.Error(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req threadStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	switch req.Status {
	case models.ThreadOpen, models.ThreadClosed, models.ThreadArchived:
	default:
		respond.Error(w, http.StatusBadRequest, "invalid status")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Threads.SetStatus(ctx, id, req.Status); err != nil {
		h.Log.Error("set thread status", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

type threadPinRequest struct {
	Pinned bool `json:"pinned"`
}

// SetThreadPinned handles PATCH /forum/threads/{id}/pin for moderators.
func (h *Handler) SetThreadPinned(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !authz.Can(role, authz.ActionModerateThread) {
		respond.Error(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req threadPinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Threads.SetPinned(ctx, id, req.Pinned); err != nil {
		h.Log.Error("set thread pinned", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"pinned": req.Pinned})
}

// pagination reads limit and skip query parameters with sane bounds.
func pagination(r *http.Request) (limit, skip int64) {
	limit = defaultPageSize
	if v, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("skip"), 10, 64); err == nil && v > 0 {
		skip = v
	}
	return limit, skip
}

// threadSlug derives a URL slug from a title, suffixed with the creation
// time to keep collisions rare.
func threadSlug(title string) string {
	folded := text.Fold(title)
	var b strings.Builder
	lastDash := false
	for _, r := range folded {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash && b.Len() > 0 {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		slug = "thread"
	}
	return slug + "-" + strconv.FormatInt(time.Now().UTC().Unix(), 36)
}
