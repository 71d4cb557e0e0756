// internal/app/features/users/input.go
package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	"github.com/dalemusser/municipio/internal/app/system/authz"
	"github.com/dalemusser/municipio/internal/app/system/normalize"
)

type createInput struct {
	Name     string `json:"nome" validate:"required,max=200" label:"Name"`
	Email    string `json:"email" validate:"required,email,max=254" label:"Email"`
	Role     string `json:"role" validate:"required" label:"Role"`
	Status   string `json:"status" validate:"omitempty,oneof=active disabled" label:"Status"`
	Password string `json:"password" validate:"required,min=8,max=72" label:"Password"`
}

func (in *createInput) clean() {
	in.Name = normalize.Name(in.Name)
	in.Email = normalize.Email(in.Email)
	in.Role = normalize.Role(in.Role)
	in.Status = normalize.Status(in.Status)
}

// updateInput leaves absent fields unchanged. An empty password keeps the
// current one.
type updateInput struct {
	Name     *string `json:"nome" validate:"omitnil,min=1,max=200" label:"Name"`
	Email    *string `json:"email" validate:"omitnil,email,max=254" label:"Email"`
	Role     *string `json:"role" validate:"omitnil,min=1" label:"Role"`
	Status   *string `json:"status" validate:"omitnil,oneof=active disabled" label:"Status"`
	Password string  `json:"password" validate:"omitempty,min=8,max=72" label:"Password"`
}

func (in *updateInput) clean() {
	if in.Name != nil {
		v := normalize.Name(*in.Name)
		in.Name = &v
	}
	if in.Email != nil {
		v := normalize.Email(*in.Email)
		in.Email = &v
	}
	if in.Role != nil {
		v := normalize.Role(*in.Role)
		in.Role = &v
	}
	if in.Status != nil {
		v := normalize.Status(*in.Status)
		in.Status = &v
	}
}

// changed lists the fields an update touches, for the audit trail.
func (in updateInput) changed() string {
	var fields []string
	if in.Name != nil {
		fields = append(fields, "nome")
	}
	if in.Email != nil {
		fields = append(fields, "email")
	}
	if in.Role != nil {
		fields = append(fields, "role")
	}
	if in.Status != nil {
		fields = append(fields, "status")
	}
	if in.Password != "" {
		fields = append(fields, "password")
	}
	return strings.Join(fields, ",")
}

var errUnknownSector = errors.New("role names a sector that does not exist")

// checkRole accepts admin roles and sector roles of existing sectors. Only a
// superadmin may grant superadmin.
func (h *Handler) checkRole(ctx context.Context, w http.ResponseWriter, r *http.Request, role string) bool {
	if !authz.ValidRole(role) {
		uierrors.RenderBadRequest(w, r, `Role must be "superadmin", "admin" or "setor_<slug>".`)
		return false
	}
	if authz.IsSuperAdmin(role) {
		actor, _, _, _ := authz.UserCtx(r)
		if !authz.IsSuperAdmin(actor) {
			h.ErrLog.LogForbidden(w, r, "superadmin grant denied", "Only a superadmin can grant the superadmin role.")
			return false
		}
	}
	if slug := authz.SectorOf(role); slug != "" {
		slugs, err := h.Sectors.Slugs(ctx)
		if err != nil {
			h.ErrLog.LogServerError(w, r, "load sector slugs failed", err, "Failed to load sectors.")
			return false
		}
		if !slugs[slug] {
			h.ErrLog.LogBadRequest(w, r, "unknown sector role", errUnknownSector, "Role names a sector that does not exist.")
			return false
		}
	}
	return true
}
