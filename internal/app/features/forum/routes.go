// internal/app/features/forum/routes.go
package forum

import "github.com/go-chi/chi/v5"

// Routes returns a subrouter for the forum. It is mounted under /forum.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/threads", h.ListThreads)
	r.Post("/threads", h.CreateThread)
	r.Get("/threads/{id}", h.GetThread)
	r.Delete("/threads/{id}", h.DeleteThread)
	r.Patch("/threads/{id}/status", h.SetThreadStatus)
	r.Patch("/threads/{id}/pin", h.SetThreadPinned)
	r.Post("/threads/{id}/posts", h.CreatePost)

	r.Patch("/posts/{id}", h.EditPost)
	r.Delete("/posts/{id}", h.DeletePost)

	r.Post("/attachments", h.UploadAttachment)

	return r
}
