// internal/app/features/population/routes.go
package population

import "github.com/go-chi/chi/v5"

// Routes mounts the population manager under /admin/populacao.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
