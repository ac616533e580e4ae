// internal/app/features/publications/handler.go

// Package publications serves the organization's published writing:
// newsletters, essays, and announcements, managed by admins.
package publications

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/features/respond"
	publicationstore "github.com/lumenarts/lumenhub/internal/app/store/publications"
	"github.com/lumenarts/lumenhub/internal/app/system/authz"
	"github.com/lumenarts/lumenhub/internal/app/system/htmlsanitize"
	"github.com/lumenarts/lumenhub/internal/app/system/timeouts"
	"github.com/lumenarts/lumenhub/internal/domain/models"
)

// Handler holds dependencies for the publication endpoints.
type Handler struct {
	Publications *publicationstore.Store
	Log          *zap.Logger
}

// NewHandler constructs a publications Handler.
func NewHandler(pubs *publicationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Publications: pubs, Log: logger}
}

// List handles GET /publications. Admins see drafts too.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	limit, skip := pagination(r)

	var (
		pubs []models.Publication
		err  error
	)
	if authz.IsAdmin(r) {
		pubs, err = h.Publications.ListAll(ctx, limit, skip)
	} else {
		pubs, err = h.Publications.ListPublished(ctx, limit, skip)
	}
	if err != nil {
		h.Log.Error("list publications", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"publications": pubs,
		"total":        len(pubs),
	})
}

// Get handles GET /publications/{slug}. Unpublished drafts are only
// visible to admins.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	p, err := h.Publications.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			respond.Error(w, http.StatusNotFound, "publication not found")
			return
		}
		h.Log.Error("load publication", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !p.Published && !authz.IsAdmin(r) {
		respond.Error(w, http.StatusNotFound, "publication not found")
		return
	}

	respond.JSON(w, http.StatusOK, p)
}

type publicationRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
	Body  string `json:"body"`
}

// Create handles POST /publications (admin only).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !authz.Can(role, authz.ActionManagePublications) {
		respond.Error(w, http.StatusForbidden, "forbidden")
		return
	}

	var req publicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		respond.Error(w, http.StatusBadRequest, "title is required")
		return
	}
	if strings.TrimSpace(req.Slug) == "" {
		req.Slug = slugify(req.Title)
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Publications.Create(ctx, models.Publication{
		Title:    req.Title,
		Slug:     req.Slug,
		Body:     htmlsanitize.Sanitize(req.Body),
		AuthorID: userID,
	})
	if err != nil {
		if errors.Is(err, publicationstore.ErrDuplicateSlug) {
			respond.Error(w, http.StatusConflict, "a publication with this slug already exists")
			return
		}
		h.Log.Error("create publication", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusCreated, created)
}

// Update handles PATCH /publications/{id} (admin only).
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !authz.Can(role, authz.ActionManagePublications) {
		respond.Error(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req publicationRequest
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

	if err := h.Publications.Update(ctx, id, req.Title, htmlsanitize.Sanitize(req.Body)); err != nil {
		h.Log.Error("update publication", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"id": id.Hex()})
}

type publishRequest struct {
	Published bool `json:"published"`
}

// SetPublished handles PATCH /publications/{id}/publish (admin only).
func (h *Handler) SetPublished(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !authz.Can(role, authz.ActionManagePublications) {
		respond.Error(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	var req publishRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Publications.SetPublished(ctx, id, req.Published); err != nil {
		h.Log.Error("set publication published", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]bool{"published": req.Published})
}

// Delete handles DELETE /publications/{id} (admin only). Publications
// are not forum content and are removed directly.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !authz.Can(role, authz.ActionManagePublications) {
		respond.Error(w, http.StatusForbidden, "forbidden")
		return
	}
	id, ok := urlID(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Publications.Delete(ctx, id)
	if err != nil {
		h.Log.Error("delete publication", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if n == 0 {
		respond.Error(w, http.StatusNotFound, "publication not found")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"id": id.Hex()})
}

func urlID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

func pagination(r *http.Request) (limit, skip int64) {
	limit = 25
	if v, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("skip"), 10, 64); err == nil && v > 0 {
		skip = v
	}
	return limit, skip
}

// slugify turns a title into a lowercase dashed slug.
func slugify(title string) string {
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
		slug = "publication"
	}
	return slug
}
