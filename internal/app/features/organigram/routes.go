// internal/app/features/organigram/routes.go
package organigram

import "github.com/go-chi/chi/v5"

// Routes mounts the editor under /admin/organigrama.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/superiores", h.ServeSuperiorOptions)
	r.Post("/", h.HandleCreate)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	r.Post("/{id}/foto", h.HandlePhoto)
	return r
}

// PublicRoutes mounts the read-only chart under /organigrama.
func PublicRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServePublic)
	return r
}
