// internal/app/features/invitations/create.go
package invitations

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/lumenarts/lumenhub/internal/app/features/respond"
	"github.com/lumenarts/lumenhub/internal/app/system/authz"
	"github.com/lumenarts/lumenhub/internal/app/system/timeouts"
	"github.com/lumenarts/lumenhub/internal/domain/models"
)

// inviteTTL is how long an invitation stays usable.
const inviteTTL = 14 * 24 * time.Hour

type createRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Create handles POST /invitations (admin only). The raw token appears
// once in the response so the caller can email it; it is never stored.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if !authz.Can(role, authz.ActionInviteMembers) {
		respond.Error(w, http.StatusForbidden, "forbidden")
		return
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if _, err := mail.ParseAddress(req.Email); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid email address")
		return
	}
	req.Role = strings.ToLower(strings.TrimSpace(req.Role))
	if req.Role == "" {
		req.Role = models.RoleMember
	}
	switch req.Role {
	case models.RoleAdmin, models.RoleModerator, models.RoleMember:
	default:
		respond.Error(w, http.StatusBadRequest, "invalid role")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		respond.Error(w, http.StatusConflict, "a user with this email already exists")
		return
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		h.Log.Error("check existing user", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	raw := make([]byte, tokenBytes)
	if _, err := rand.Read(raw); err != nil {
		h.Log.Error("generate invitation token", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	token := hex.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcryptCost)
	if err != nil {
		h.Log.Error("hash invitation token", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	inv, err := h.Invitations.Create(ctx, models.Invitation{
		Email:     req.Email,
		Role:      req.Role,
		TokenHash: hash,
		InvitedBy: userID,
		ExpiresAt: time.Now().UTC().Add(inviteTTL),
	})
	if err != nil {
		h.Log.Error("create invitation", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Log.Info("invitation created",
		zap.String("invitation_id", inv.ID.Hex()),
		zap.String("role", inv.Role))

	respond.JSON(w, http.StatusCreated, map[string]interface{}{
		"id":         inv.ID.Hex(),
		"email":      inv.Email,
		"role":       inv.Role,
		"token":      token,
		"expires_at": inv.ExpiresAt,
	})
}
