// internal/app/features/sectoradmin/sectors.go
package sectoradmin

import (
	"context"
	"net/http"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/app/system/authz"
	"github.com/dalemusser/municipio/internal/app/system/inputval"
	"github.com/dalemusser/municipio/internal/app/system/respond"
	"github.com/dalemusser/municipio/internal/app/system/timeouts"
	"github.com/dalemusser/municipio/internal/domain/models"
	"go.uber.org/zap"
)

type sectorListVM struct {
	Items []models.Sector `json:"items"`
}

// ServeList handles GET /admin/setores. Sector roles only see their own
// sector.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	role, _, _, ok := authz.UserCtx(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r)
		return
	}
	if !authz.IsAdmin(role) && !authz.IsSectorRole(role) {
		h.ErrLog.LogForbidden(w, r, "sector list denied", "")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rows, err := h.Sectors.List(ctx, tablestore.Query{})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list sectors failed", err, "Failed to load sectors.")
		return
	}
	vm := sectorListVM{Items: make([]models.Sector, 0, len(rows))}
	for _, s := range rows {
		if authz.CanManageSector(role, s.Slug) {
			vm.Items = append(vm.Items, s)
		}
	}
	respond.JSON(w, http.StatusOK, vm)
}

// ServeSector handles GET /admin/setores/{sectorID}.
func (h *Handler) ServeSector(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, sectorFrom(r))
}

// HandleCreate handles POST /admin/setores. Admin only.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if !authz.RequestIsAdmin(r) {
		h.ErrLog.LogForbidden(w, r, "sector create denied", "Only administrators can create sectors.")
		return
	}
	var in sectorInput
	if err := respond.Decode(w, r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, err.Error())
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.RenderValidation(w, r, res)
		return
	}
	f := in.fields()
	sec := models.Sector{
		Slug:        in.Slug,
		Name:        f["nome"].(string),
		Description: f["descricao"].(string),
		Vision:      f["visao"].(string),
		Mission:     f["missao"].(string),
		Color:       f["cor"].(string),
		Icon:        in.Icon,
		Order:       in.Order,
		Active:      in.Active == nil || *in.Active,
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Sectors.Create(ctx, sec)
	if err != nil {
		h.writeErr(w, r, "create sector", "setores", err)
		return
	}
	h.Log.Info("sector created", zap.String("slug", created.Slug))
	respond.JSON(w, http.StatusCreated, created)
}

// HandleUpdate handles PUT /admin/setores/{sectorID}. Sector roles may not
// change the slug or the active flag.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	sec := sectorFrom(r)
	var in sectorInput
	if err := respond.Decode(w, r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, err.Error())
		return
	}
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.RenderValidation(w, r, res)
		return
	}
	patch := in.fields()
	if !authz.RequestIsAdmin(r) {
		delete(patch, "slug")
		delete(patch, "ativo")
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	updated, err := h.Sectors.Update(ctx, sec.ID, patch)
	if err != nil {
		h.writeErr(w, r, "update sector", "setores", err)
		return
	}
	respond.JSON(w, http.StatusOK, updated)
}

// HandleDelete handles DELETE /admin/setores/{sectorID}, removing the sector
// and every child row. Admin only.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	sec := sectorFrom(r)
	if !authz.RequestIsAdmin(r) {
		h.ErrLog.LogForbidden(w, r, "sector delete denied", "Only administrators can delete sectors.", zap.String("slug", sec.Slug))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if err := h.Sectors.Delete(ctx, sec.ID); err != nil {
		h.writeErr(w, r, "delete sector", "setores", err)
		return
	}
	h.Log.Info("sector deleted", zap.String("slug", sec.Slug))
	w.WriteHeader(http.StatusNoContent)
}
