// internal/app/features/sectors/page.go
package sectors

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	"github.com/dalemusser/municipio/internal/app/system/respond"
	"github.com/dalemusser/municipio/internal/app/system/timeouts"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// NotFoundMessage is shown for unknown or inactive sectors.
const NotFoundMessage = "Sector unavailable"

type listVM struct {
	Items []navVM `json:"items"`
}

// ServeList handles GET /setores.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rows, err := h.Sectors.ListActive(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list sectors failed", err, "Failed to load sectors.")
		return
	}
	vm := listVM{Items: make([]navVM, 0, len(rows))}
	for _, s := range rows {
		vm.Items = append(vm.Items, navVM{Slug: s.Slug, Name: s.Name, Icon: s.Icon})
	}
	respond.JSON(w, http.StatusOK, vm)
}

// ServePage handles GET /setores/{slug}.
//
// Unknown and inactive sectors answer 404 with NotFoundMessage. A failing
// child collection or navigation list still renders the page.
func (h *Handler) ServePage(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sc, ok := h.Pages.GetSectorBySlug(ctx, slug)
	if !ok {
		uierrors.RenderNotFound(w, r, NotFoundMessage)
		return
	}

	nav, err := h.Sectors.ListActive(ctx)
	if err != nil {
		h.Log.Warn("sector navigation failed", zap.String("slug", slug), zap.Error(err))
		nav = []models.Sector{}
	}
	respond.JSON(w, http.StatusOK, buildPage(sc, nav))
}
