// internal/app/features/settings/routes.go
package settings

import "github.com/go-chi/chi/v5"

// MountRoutes mounts the admin settings routes on the given router.
// All routes require admin authentication.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.ServeSettings)
	r.Put("/", h.HandleSettings)
	r.Post("/limpar-cache", h.HandlePurgeCache)
	r.Post("/email-teste", h.HandleTestEmail)
}

// MountPublicRoutes mounts the read-only site information.
func (h *Handler) MountPublicRoutes(r chi.Router) {
	r.Get("/", h.ServePublic)
}
