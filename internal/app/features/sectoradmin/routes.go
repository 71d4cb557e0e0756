// internal/app/features/sectoradmin/routes.go
package sectoradmin

import (
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the sector back-office under /admin/setores. Callers must
// require a signed-in user; role checks happen per route.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Route("/{sectorID}", func(r chi.Router) {
		r.Use(h.loadSector)
		r.Get("/", h.ServeSector)
		r.Put("/", h.HandleUpdate)
		r.Delete("/", h.HandleDelete)

		mountChild[models.SectorStatistic, statisticInput](r, h, "estatisticas", h.Children.Statistics)
		mountChild[models.Program, programInput](r, h, "programas", h.Children.Programs)
		mountChild[models.Opportunity, opportunityInput](r, h, "oportunidades", h.Children.Opportunities)
		mountChild[models.Infrastructure, infrastructureInput](r, h, "infraestruturas", h.Children.Infrastructures)
		mountChild[models.Contact, contactInput](r, h, "contactos", h.Children.Contacts)
	})
	return r
}
