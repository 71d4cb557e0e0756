// internal/app/features/organigram/members.go
package organigram

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	organigramstore "github.com/dalemusser/municipio/internal/app/store/organigram"
	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/app/system/inputval"
	"github.com/dalemusser/municipio/internal/app/system/listview"
	"github.com/dalemusser/municipio/internal/app/system/respond"
	"github.com/dalemusser/municipio/internal/app/system/timeouts"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// memberView is a list response plus the outcome of an optional photo upload.
type memberView struct {
	listview.View[models.OrganigramMember]
	PhotoError string `json:"photo_error,omitempty"`
}

func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, tablestore.ErrNotFound):
		uierrors.RenderNotFound(w, r, "Member not found.")
	case errors.Is(err, organigramstore.ErrSelfSuperior):
		uierrors.RenderBadRequest(w, r, "A member cannot be their own superior.")
	case errors.Is(err, organigramstore.ErrUnknownSuperior):
		uierrors.RenderBadRequest(w, r, "The selected superior does not exist.")
	default:
		h.ErrLog.LogServerError(w, r, op+" organigram member failed", err, "The change could not be saved. Please try again.")
	}
}

// validate checks the input and that its department is configured. current
// is the department already stored on the member, which stays accepted
// even after it is deactivated.
func (h *Handler) validate(ctx context.Context, w http.ResponseWriter, r *http.Request, in *memberInput, current string) bool {
	in.clean()
	if res := inputval.Validate(*in); res.HasErrors() {
		uierrors.RenderValidation(w, r, res)
		return false
	}
	if current != "" && in.Department == current {
		return true
	}
	ok, err := h.Departments.IsActive(ctx, in.Department)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "check department failed", err, "Failed to load departments.")
		return false
	}
	if !ok {
		uierrors.RenderBadRequest(w, r, "Department must be one of the configured departments.")
		return false
	}
	return true
}

// ServeList handles GET /admin/organigrama. Inactive members are included.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	snap := h.list.FetchAll(ctx)
	if snap.Err != nil {
		h.Log.Warn("organigram list failed; serving last loaded rows", zap.Error(snap.Err))
	}
	respond.JSON(w, http.StatusOK, snap.View())
}

// ServeSuperiorOptions handles GET /admin/organigrama/superiores. The
// optional ?editar=<id> excludes the member being edited.
func (h *Handler) ServeSuperiorOptions(w http.ResponseWriter, r *http.Request) {
	var editing primitive.ObjectID
	if raw := r.URL.Query().Get("editar"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			uierrors.RenderBadRequest(w, r, "Invalid id.")
			return
		}
		editing = id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	all, err := h.Members.List(ctx, tablestore.Query{})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list superior options failed", err, "Failed to load members.")
		return
	}
	respond.JSON(w, http.StatusOK, listview.Snapshot[models.OrganigramMember]{
		Items: organigramstore.SuperiorOptions(all, editing),
	}.View())
}

// ServePublic handles GET /organigrama: active members in display order.
func (h *Handler) ServePublic(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rows, err := h.Members.List(ctx, tablestore.Query{ActiveOnly: true})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list organigram failed", err, "Failed to load the organigram.")
		return
	}
	respond.JSON(w, http.StatusOK, listview.Snapshot[models.OrganigramMember]{Items: rows}.View())
}

// HandleCreate handles POST /admin/organigrama. The row is written first;
// a photo sent with it is uploaded afterwards and a photo failure does not
// undo the row.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in, p, err := decodeMember(w, r)
	if err != nil {
		uierrors.RenderBadRequest(w, r, err.Error())
		return
	}
	defer p.close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if !h.validate(ctx, w, r, &in, "") {
		return
	}

	created, snap, err := h.list.Create(ctx, models.OrganigramMember{
		Name:        in.Name,
		Role:        in.Role,
		Department:  in.Department,
		SuperiorID:  in.superior(),
		Email:       in.Email,
		Phone:       in.Phone,
		Description: in.Description,
		Order:       in.Order,
		Active:      in.active(),
	})
	if err != nil {
		h.writeErr(w, r, "create", err)
		return
	}

	respond.JSON(w, http.StatusCreated, h.withPhoto(ctx, created, snap, p))
}

// HandleUpdate handles PUT /admin/organigrama/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid id.")
		return
	}
	in, p, err := decodeMember(w, r)
	if err != nil {
		uierrors.RenderBadRequest(w, r, err.Error())
		return
	}
	defer p.close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	current, err := h.Members.Get(ctx, id)
	if err != nil {
		h.writeErr(w, r, "load", err)
		return
	}
	if !h.validate(ctx, w, r, &in, current.Department) {
		return
	}

	updated, snap, err := h.list.Update(ctx, id, in.patch())
	if err != nil {
		h.writeErr(w, r, "update", err)
		return
	}

	respond.JSON(w, http.StatusOK, h.withPhoto(ctx, updated, snap, p))
}

// HandleDelete handles DELETE /admin/organigrama/{id}. Direct subordinates
// are left without a superior.
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
	respond.JSON(w, http.StatusOK, snap.View())
}
