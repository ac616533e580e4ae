// internal/app/features/moderation/routes.go
package moderation

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the moderation endpoints. It is mounted
// under /admin/moderation; the cleanup route does its own authorization
// so external schedulers can reach it without a session.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/restore", h.Restore)
	r.Get("/deleted", h.Deleted)
	r.Get("/cleanup", h.Cleanup)
	return r
}
