// internal/app/features/publications/routes.go
package publications

import "github.com/go-chi/chi/v5"

// Routes wires the publication endpoints.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/by-slug/{slug}", h.Get)
	r.Patch("/{id}", h.Update)
	r.Patch("/{id}/publish", h.SetPublished)
	r.Delete("/{id}", h.Delete)

	return r
}
