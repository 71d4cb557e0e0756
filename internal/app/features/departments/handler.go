// internal/app/features/departments/handler.go
package departments

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	departmentstore "github.com/dalemusser/municipio/internal/app/store/departments"
	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/app/system/inputval"
	"github.com/dalemusser/municipio/internal/app/system/listview"
	"github.com/dalemusser/municipio/internal/app/system/normalize"
	"github.com/dalemusser/municipio/internal/app/system/respond"
	"github.com/dalemusser/municipio/internal/app/system/timeouts"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler manages the department list organigram members pick from.
type Handler struct {
	Log    *zap.Logger
	ErrLog *uierrors.ErrorLogger

	list *listview.Manager[models.Department]
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Log:    logger,
		ErrLog: errLog,
		list:   listview.NewManager[models.Department](departmentstore.New(db), tablestore.Query{}),
	}
}

// Routes mounts the manager under /admin/departamentos.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	return r
}

type departmentInput struct {
	Name        string `json:"nome" validate:"required,max=200" label:"Name"`
	Description string `json:"descricao" validate:"max=2000" label:"Description"`
	Order       int    `json:"ordem" validate:"gte=0" label:"Order"`
	Active      *bool  `json:"ativo" label:"Active"`
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (departmentInput, bool) {
	var in departmentInput
	if err := respond.Decode(w, r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, err.Error())
		return in, false
	}
	in.Name = normalize.Name(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.RenderValidation(w, r, res)
		return in, false
	}
	return in, true
}

func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, op string, err error) {
	err = departmentstore.DupErr(err)
	switch {
	case errors.Is(err, tablestore.ErrNotFound):
		uierrors.RenderNotFound(w, r, "Department not found.")
	case errors.Is(err, departmentstore.ErrDuplicateDepartment):
		uierrors.RenderConflict(w, r, "A department with this name already exists.")
	default:
		h.ErrLog.LogServerError(w, r, op+" department failed", err, "The change could not be saved. Please try again.")
	}
}

// ServeList handles GET /admin/departamentos.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	snap := h.list.FetchAll(ctx)
	if snap.Err != nil {
		h.Log.Warn("department list failed; serving last loaded rows", zap.Error(snap.Err))
	}
	respond.JSON(w, http.StatusOK, snap.View())
}

// HandleCreate handles POST /admin/departamentos.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	in, ok := h.decode(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, snap, err := h.list.Create(ctx, models.Department{
		Name:        in.Name,
		Description: in.Description,
		Order:       in.Order,
		Active:      in.Active == nil || *in.Active,
	})
	if err != nil {
		h.writeErr(w, r, "create", err)
		return
	}
	respond.JSON(w, http.StatusCreated, snap.WithItem(created))
}

// HandleUpdate handles PUT /admin/departamentos/{id}. Members keep the
// department name they were saved with.
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

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	updated, snap, err := h.list.Update(ctx, id, bson.M{
		"nome":      in.Name,
		"descricao": in.Description,
		"ordem":     in.Order,
		"ativo":     in.Active == nil || *in.Active,
	})
	if err != nil {
		h.writeErr(w, r, "update", err)
		return
	}
	respond.JSON(w, http.StatusOK, snap.WithItem(updated))
}

// HandleDelete handles DELETE /admin/departamentos/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid id.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	snap, err := h.list.Delete(ctx, id)
	if err != nil {
		h.writeErr(w, r, "delete", err)
		return
	}
	respond.JSON(w, http.StatusOK, snap.View())
}
