// internal/app/features/users/users.go
package users

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	userstore "github.com/dalemusser/municipio/internal/app/store/users"
	"github.com/dalemusser/municipio/internal/app/system/authz"
	"github.com/dalemusser/municipio/internal/app/system/inputval"
	"github.com/dalemusser/municipio/internal/app/system/paging"
	"github.com/dalemusser/municipio/internal/app/system/respond"
	"github.com/dalemusser/municipio/internal/app/system/timeouts"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type listResponse struct {
	Items []models.User `json:"items"`
	Page  paging.Page   `json:"page"`
}

type userResponse struct {
	Item models.User `json:"item"`
}

func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, userstore.ErrNotFound):
		uierrors.RenderNotFound(w, r, "User not found.")
	case errors.Is(err, userstore.ErrDuplicateEmail):
		uierrors.RenderConflict(w, r, "A user with this email already exists.")
	case errors.Is(err, userstore.ErrWeakPassword):
		uierrors.RenderBadRequest(w, r, err.Error())
	default:
		h.ErrLog.LogServerError(w, r, op+" user failed", err, "The change could not be saved. Please try again.")
	}
}

func idParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid id.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// ServeList handles GET /admin/utilizadores?q=&role=&status=&after=&before=&limit=.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	filter := userstore.ListFilter{
		Search: query.Get(r, "q"),
		Role:   query.Get(r, "role"),
		Status: query.Get(r, "status"),
	}
	rows, page, err := h.Users.List(ctx, filter, paging.FromRequest(r))
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list users failed", err, "Failed to load users.")
		return
	}
	respond.JSON(w, http.StatusOK, listResponse{Items: rows, Page: page})
}

// ServeUser handles GET /admin/utilizadores/{id}.
func (h *Handler) ServeUser(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.writeErr(w, r, "load", err)
		return
	}
	respond.JSON(w, http.StatusOK, userResponse{Item: u})
}

// HandleCreate handles POST /admin/utilizadores.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var in createInput
	if err := respond.Decode(w, r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, err.Error())
		return
	}
	in.clean()
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.RenderValidation(w, r, res)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if !h.checkRole(ctx, w, r, in.Role) {
		return
	}
	u, err := h.Users.Create(ctx, models.User{
		Name:   in.Name,
		Email:  in.Email,
		Role:   in.Role,
		Status: in.Status,
	}, in.Password)
	if err != nil {
		h.writeErr(w, r, "create", err)
		return
	}
	h.Log.Info("user created", zap.String("user_id", u.ID.Hex()), zap.String("role", u.Role))
	h.Audit.UserCreated(ctx, r, u.ID, u.Role)
	respond.JSON(w, http.StatusCreated, userResponse{Item: u})
}

// HandleUpdate handles PUT /admin/utilizadores/{id}. Admins cannot disable
// themselves, and the last active admin cannot be demoted or disabled.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var in updateInput
	if err := respond.Decode(w, r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, err.Error())
		return
	}
	in.clean()
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.RenderValidation(w, r, res)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	current, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.writeErr(w, r, "load", err)
		return
	}

	disabling := in.Status != nil && *in.Status == userstore.StatusDisabled
	demoting := in.Role != nil && !authz.IsAdmin(*in.Role)
	if isSelf(r, id) && (disabling || demoting) {
		h.ErrLog.LogForbidden(w, r, "self lockout denied", "You cannot disable your own account or remove your own admin role.")
		return
	}
	if in.Role != nil && *in.Role != current.Role {
		if authz.IsSuperAdmin(current.Role) {
			actor, _, _, _ := authz.UserCtx(r)
			if !authz.IsSuperAdmin(actor) {
				h.ErrLog.LogForbidden(w, r, "superadmin change denied", "Only a superadmin can change a superadmin.")
				return
			}
		}
		if !h.checkRole(ctx, w, r, *in.Role) {
			return
		}
	}
	if (disabling || demoting) && authz.IsAdmin(current.Role) && current.Status == userstore.StatusActive {
		if !h.keepsAnAdmin(ctx, w, r) {
			return
		}
	}

	u, err := h.Users.Update(ctx, id, userstore.Update{
		Name:     in.Name,
		Email:    in.Email,
		Role:     in.Role,
		Status:   in.Status,
		Password: in.Password,
	})
	if err != nil {
		h.writeErr(w, r, "update", err)
		return
	}
	h.Audit.UserUpdated(ctx, r, id, in.changed())
	respond.JSON(w, http.StatusOK, userResponse{Item: u})
}

// HandleDelete handles DELETE /admin/utilizadores/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if isSelf(r, id) {
		h.ErrLog.LogForbidden(w, r, "self delete denied", "You cannot delete your own account.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	current, err := h.Users.GetByID(ctx, id)
	if err != nil {
		h.writeErr(w, r, "load", err)
		return
	}
	if authz.IsSuperAdmin(current.Role) {
		actor, _, _, _ := authz.UserCtx(r)
		if !authz.IsSuperAdmin(actor) {
			h.ErrLog.LogForbidden(w, r, "superadmin delete denied", "Only a superadmin can delete a superadmin.")
			return
		}
	}
	if authz.IsAdmin(current.Role) && current.Status == userstore.StatusActive {
		if !h.keepsAnAdmin(ctx, w, r) {
			return
		}
	}

	if err := h.Users.Delete(ctx, id); err != nil {
		h.writeErr(w, r, "delete", err)
		return
	}
	h.Log.Info("user deleted", zap.String("user_id", id.Hex()))
	h.Audit.UserDeleted(ctx, r, id, current.Role)
	w.WriteHeader(http.StatusNoContent)
}

// keepsAnAdmin refuses a change that would leave no active admin.
func (h *Handler) keepsAnAdmin(ctx context.Context, w http.ResponseWriter, r *http.Request) bool {
	n, err := h.Users.CountActiveAdmins(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count admins failed", err, "Failed to check remaining admins.")
		return false
	}
	if n <= 1 {
		uierrors.RenderConflict(w, r, "At least one active admin must remain.")
		return false
	}
	return true
}

func isSelf(r *http.Request, id primitive.ObjectID) bool {
	_, _, uid, ok := authz.UserCtx(r)
	return ok && uid == id
}
