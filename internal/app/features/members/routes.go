// internal/app/features/members/routes.go
package members

import "github.com/go-chi/chi/v5"

// Routes wires the member directory endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Directory)
	r.Patch("/me", h.UpdateProfile)
	r.Patch("/{id}/role", h.SetRole)

	return r
}
