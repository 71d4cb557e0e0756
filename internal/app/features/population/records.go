// internal/app/features/population/records.go
package population

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	populationstore "github.com/dalemusser/municipio/internal/app/store/population"
	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/app/system/demographics"
	"github.com/dalemusser/municipio/internal/app/system/htmlsanitize"
	"github.com/dalemusser/municipio/internal/app/system/inputval"
	"github.com/dalemusser/municipio/internal/app/system/respond"
	"github.com/dalemusser/municipio/internal/app/system/timeouts"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type recordInput struct {
	Year       int    `json:"ano" validate:"required,gte=1800,lte=2200" label:"Year"`
	Population int64  `json:"populacao_total" validate:"gte=0" label:"Population"`
	Source     string `json:"fonte" validate:"required,popsource" label:"Source"`
	Notes      string `json:"observacoes" validate:"max=2000" label:"Notes"`
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (recordInput, bool) {
	var in recordInput
	if err := respond.Decode(w, r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, err.Error())
		return in, false
	}
	in.Notes = htmlsanitize.StripTags(in.Notes)
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.RenderValidation(w, r, res)
		return in, false
	}
	return in, true
}

func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, op string, err error) {
	err = populationstore.DupErr(err)
	switch {
	case errors.Is(err, tablestore.ErrNotFound):
		uierrors.RenderNotFound(w, r, "Population record not found.")
	case errors.Is(err, populationstore.ErrDuplicateYear):
		uierrors.RenderConflict(w, r, "A population record for this year already exists.")
	default:
		h.ErrLog.LogServerError(w, r, op+" population record failed", err, "The change could not be saved. Please try again.")
	}
}

// ServeList handles GET /admin/populacao. The list is ordered by year.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	snap := h.list.FetchAll(ctx)
	if snap.Err != nil {
		h.Log.Warn("population list failed; serving last loaded rows", zap.Error(snap.Err))
	}
	respond.JSON(w, http.StatusOK, snap.View())
}

// HandleCreate handles POST /admin/populacao. Growth rate and density are
// derived here and stored with the record.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, err := h.Records.All(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load population history failed", err, "Failed to load population history.")
		return
	}
	rec := demographics.Derive(models.PopulationRecord{
		Year:       in.Year,
		Population: in.Population,
		Source:     models.PopulationSource(in.Source),
		Notes:      in.Notes,
	}, all, h.AreaKm2)

	created, snap, err := h.list.Create(ctx, rec)
	if err != nil {
		h.writeErr(w, r, "create", err)
		return
	}
	h.syncDemographics(ctx)
	respond.JSON(w, http.StatusCreated, snap.WithItem(created))
}

// HandleUpdate handles PUT /admin/populacao/{id}. Derived fields of the
// edited record are recomputed; other years keep their stored values.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid id.")
		return
	}
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	all, err := h.Records.All(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load population history failed", err, "Failed to load population history.")
		return
	}
	rec := demographics.Derive(models.PopulationRecord{
		ID:         id,
		Year:       in.Year,
		Population: in.Population,
	}, all, h.AreaKm2)

	updated, snap, err := h.list.Update(ctx, id, bson.M{
		"ano":                    rec.Year,
		"populacao_total":        rec.Population,
		"fonte":                  in.Source,
		"observacoes":            in.Notes,
		"taxa_crescimento":       rec.GrowthRate,
		"densidade_populacional": rec.Density,
	})
	if err != nil {
		h.writeErr(w, r, "update", err)
		return
	}
	h.syncDemographics(ctx)
	respond.JSON(w, http.StatusOK, snap.WithItem(updated))
}

// HandleDelete handles DELETE /admin/populacao/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	snap, err := h.list.Delete(ctx, id)
	if err != nil {
		h.writeErr(w, r, "delete", err)
		return
	}
	h.syncDemographics(ctx)
	respond.JSON(w, http.StatusOK, snap.View())
}
