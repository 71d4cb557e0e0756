// internal/app/features/sectors/routes.go
package sectors

import "github.com/go-chi/chi/v5"

// Routes mounts the public sector endpoints under /setores.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Get("/{slug}", h.ServePage)
	r.Group(func(r chi.Router) {
		if h.Submissions != nil {
			r.Use(h.Submissions.Middleware)
		}
		r.Post("/{slug}/candidaturas", h.HandleApplication)
		r.Post("/{slug}/inscricoes", h.HandleEnrollment)
	})
	return r
}
