// internal/app/features/userinfo/handler.go
package userinfo

import (
	"net/http"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	"github.com/dalemusser/municipio/internal/app/system/auth"
	"github.com/dalemusser/municipio/internal/app/system/authz"
	"github.com/dalemusser/municipio/internal/app/system/respond"
	"github.com/go-chi/chi/v5"
)

// Handler serves the signed-in user's identity.
type Handler struct{}

// NewHandler creates a new userinfo handler.
func NewHandler() *Handler {
	return &Handler{}
}

// Routes mounts GET /me.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeUserInfo)
	return r
}

type userInfo struct {
	auth.SessionUser
	Admin  bool   `json:"admin"`
	Sector string `json:"setor,omitempty"`
}

// ServeUserInfo answers the current user, or 401 when signed out.
//
//	{ "id":"…", "nome":"…", "email":"…", "role":"setor_saude", "admin":false, "setor":"saude" }
func (h *Handler) ServeUserInfo(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.RenderUnauthorized(w, r)
		return
	}
	slug := authz.SectorOf(u.Role)
	respond.JSON(w, http.StatusOK, userInfo{
		SessionUser: *u,
		Admin:       authz.IsAdmin(u.Role),
		Sector:      slug,
	})
}
