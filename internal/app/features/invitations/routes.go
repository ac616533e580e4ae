// internal/app/features/invitations/routes.go
package invitations

import "github.com/go-chi/chi/v5"

// Routes wires the invitation endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Post("/accept", h.Accept)
	r.Delete("/{id}", h.Revoke)

	return r
}
