// internal/app/features/requests/requests.go
package requests

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	requeststore "github.com/dalemusser/municipio/internal/app/store/requests"
	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/app/system/normalize"
	"github.com/dalemusser/municipio/internal/app/system/respond"
	"github.com/dalemusser/municipio/internal/app/system/timeouts"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type listResponse struct {
	Items []models.ServiceRequest `json:"items"`
}

type itemResponse struct {
	Item models.ServiceRequest `json:"item"`
}

type stateInput struct {
	State string `json:"estado"`
}

// ServeList handles GET /admin/solicitacoes?setor_id=&estado=, newest first.
// A sector role is always limited to its own sector.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	own, ok := h.scope(ctx, w, r)
	if !ok {
		return
	}

	var f requeststore.Filter
	if raw := query.Get(r, "setor_id"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			uierrors.RenderBadRequest(w, r, "Invalid setor_id.")
			return
		}
		f.SectorID = id
	}
	if !own.IsZero() {
		f.SectorID = own
	}
	if st := normalize.QueryParam(query.Get(r, "estado")); st != "" {
		if !requeststore.ValidState(st) {
			uierrors.RenderBadRequest(w, r, "Unknown estado.")
			return
		}
		f.State = st
	}

	rows, err := h.Requests.List(ctx, f)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list requests failed", err, "Failed to load requests.")
		return
	}
	respond.JSON(w, http.StatusOK, listResponse{Items: rows})
}

// load returns the request with the URL id if the user may act on it.
func (h *Handler) load(ctx context.Context, w http.ResponseWriter, r *http.Request) (models.ServiceRequest, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid id.")
		return models.ServiceRequest{}, false
	}
	own, ok := h.scope(ctx, w, r)
	if !ok {
		return models.ServiceRequest{}, false
	}
	req, err := h.Requests.Get(ctx, id)
	if errors.Is(err, tablestore.ErrNotFound) || (err == nil && !own.IsZero() && req.SectorID != own) {
		uierrors.RenderNotFound(w, r, "Request not found.")
		return models.ServiceRequest{}, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load request failed", err, "Failed to load the request.")
		return models.ServiceRequest{}, false
	}
	return req, true
}

// HandleState handles PATCH /admin/solicitacoes/{id} with {"estado": ...}.
func (h *Handler) HandleState(w http.ResponseWriter, r *http.Request) {
	var in stateInput
	if err := respond.Decode(w, r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	req, ok := h.load(ctx, w, r)
	if !ok {
		return
	}
	updated, err := h.Requests.SetState(ctx, req.ID, normalize.QueryParam(in.State))
	if errors.Is(err, requeststore.ErrBadState) {
		uierrors.RenderBadRequest(w, r, "Unknown estado.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "update request failed", err, "The change could not be saved.")
		return
	}
	h.Audit.RequestStateChanged(ctx, r, updated)
	respond.JSON(w, http.StatusOK, itemResponse{Item: updated})
}

// HandleDelete handles DELETE /admin/solicitacoes/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	req, ok := h.load(ctx, w, r)
	if !ok {
		return
	}
	if err := h.Requests.Delete(ctx, req.ID); err != nil {
		h.ErrLog.LogServerError(w, r, "delete request failed", err, "The request could not be deleted.")
		return
	}
	h.Audit.RequestDeleted(ctx, r, req)
	w.WriteHeader(http.StatusNoContent)
}
