// internal/app/features/invitations/accept.go
package invitations

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/lumenarts/lumenhub/internal/app/features/respond"
	userstore "github.com/lumenarts/lumenhub/internal/app/store/users"
	"github.com/lumenarts/lumenhub/internal/app/system/timeouts"
	"github.com/lumenarts/lumenhub/internal/domain/models"
)

type acceptRequest struct {
	Email    string `json:"email"`
	Token    string `json:"token"`
	FullName string `json:"full_name"`
}

// Accept handles POST /invitations/accept. On success the invitee
// becomes a user with the invited role.
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	var req acceptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	req.FullName = strings.TrimSpace(req.FullName)
	if req.Email == "" || req.Token == "" || req.FullName == "" {
		respond.Error(w, http.StatusBadRequest, "email, token, and full_name are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	inv, err := h.Invitations.GetPendingByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Same response as a bad token.
			respond.Error(w, http.StatusForbidden, "invalid or expired invitation")
			return
		}
		h.Log.Error("load invitation", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if inv.Expired(time.Now().UTC()) {
		respond.Error(w, http.StatusForbidden, "invalid or expired invitation")
		return
	}
	if bcrypt.CompareHashAndPassword(inv.TokenHash, []byte(req.Token)) != nil {
		respond.Error(w, http.StatusForbidden, "invalid or expired invitation")
		return
	}

	matched, err := h.Invitations.MarkAccepted(ctx, inv.ID)
	if err != nil {
		h.Log.Error("mark invitation accepted", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if matched == 0 {
		respond.Error(w, http.StatusConflict, "invitation already accepted")
		return
	}

	u, err := h.Users.Create(ctx, models.User{
		FullName: req.FullName,
		Email:    inv.Email,
		Role:     inv.Role,
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			respond.Error(w, http.StatusConflict, "a user with this email already exists")
			return
		}
		h.Log.Error("create user from invitation", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	h.Log.Info("invitation accepted",
		zap.String("invitation_id", inv.ID.Hex()),
		zap.String("user_id", u.ID.Hex()))

	respond.JSON(w, http.StatusCreated, u)
}
