// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/municipio/internal/app/system/auditlog"
	"github.com/dalemusser/municipio/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	Audit      *auditlog.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
	}
}

// Routes mounts POST /logout.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleLogout)
	return r
}

// HandleLogout expires the session cookie. It answers 204 even without a
// session so clients can call it unconditionally.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.CurrentUser(r); ok {
		h.Audit.Logout(r.Context(), r)
	}
	if err := h.SessionMgr.Logout(w, r); err != nil {
		h.Log.Error("logout: save session", zap.Error(err))
	}
	if u, ok := auth.CurrentUser(r); ok {
		h.Log.Info("user signed out", zap.String("user_id", u.ID))
	}
	w.WriteHeader(http.StatusNoContent)
}
