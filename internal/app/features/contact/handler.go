// internal/app/features/contact/handler.go

// Package contact takes public contact-form submissions. The endpoint is
// unauthenticated, so it sits behind a per-IP rate limit.
package contact

import (
	"context"
	"encoding/json"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/lumenarts/lumenhub/internal/app/features/respond"
	contactstore "github.com/lumenarts/lumenhub/internal/app/store/contact"
	"github.com/lumenarts/lumenhub/internal/app/system/authz"
	"github.com/lumenarts/lumenhub/internal/app/system/ratelimit"
	"github.com/lumenarts/lumenhub/internal/app/system/timeouts"
	"github.com/lumenarts/lumenhub/internal/domain/models"
)

const maxMessageLen = 5000

// Handler holds dependencies for the contact endpoints.
type Handler struct {
	Messages *contactstore.Store
	Limiter  *ratelimit.Limiter
	Log      *zap.Logger
}

// NewHandler constructs a contact Handler.
func NewHandler(messages *contactstore.Store, limiter *ratelimit.Limiter, logger *zap.Logger) *Handler {
	return &Handler{Messages: messages, Limiter: limiter, Log: logger}
}

type submitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Submit handles POST /contact.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ClientIP(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	allowed, err := h.Limiter.Allow(ctx, "contact:"+ip)
	if err != nil {
		h.Log.Error("contact rate limit check", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !allowed {
		respond.Error(w, http.StatusTooManyRequests, "too many messages, try again later")
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Message = strings.TrimSpace(req.Message)
	if req.Name == "" || req.Message == "" {
		respond.Error(w, http.StatusBadRequest, "name and message are required")
		return
	}
	if len(req.Message) > maxMessageLen {
		respond.Error(w, http.StatusBadRequest, "message is too long")
		return
	}
	if _, err := mail.ParseAddress(strings.TrimSpace(req.Email)); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid email address")
		return
	}

	m, err := h.Messages.Create(ctx, models.ContactMessage{
		Name:    req.Name,
		Email:   strings.TrimSpace(req.Email),
		Message: req.Message,
		IP:      ip,
	})
	if err != nil {
		h.Log.Error("store contact message", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Log.Info("contact message received", zap.String("message_id", m.ID.Hex()))
	respond.JSON(w, http.StatusCreated, map[string]string{"id": m.ID.Hex()})
}

// Inbox handles GET /contact (admin only).
func (h *Handler) Inbox(w http.ResponseWriter, r *http.Request) {
	if _, _, _, ok := authz.UserCtx(r); !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !authz.IsAdmin(r) {
		respond.Error(w, http.StatusForbidden, "forbidden")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	limit, skip := pagination(r)
	msgs, err := h.Messages.List(ctx, limit, skip)
	if err != nil {
		h.Log.Error("list contact messages", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{
		"messages": msgs,
		"total":    len(msgs),
	})
}

func pagination(r *http.Request) (limit, skip int64) {
	limit = 50
	if v, err := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.ParseInt(r.URL.Query().Get("skip"), 10, 64); err == nil && v > 0 {
		skip = v
	}
	return limit, skip
}
