// internal/app/features/workinggroups/routes.go
package workinggroups

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the working-group endpoints. It is
// mounted under /working-groups.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/by-slug/{slug}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/members", h.AddMember)
	r.Delete("/{id}/members", h.RemoveMember)

	return r
}
