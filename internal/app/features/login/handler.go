// internal/app/features/login/handler.go
package login

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	userstore "github.com/dalemusser/municipio/internal/app/store/users"
	"github.com/dalemusser/municipio/internal/app/system/auditlog"
	"github.com/dalemusser/municipio/internal/app/system/auth"
	"github.com/dalemusser/municipio/internal/app/system/inputval"
	"github.com/dalemusser/municipio/internal/app/system/ratelimit"
	"github.com/dalemusser/municipio/internal/app/system/respond"
	"github.com/dalemusser/municipio/internal/app/system/timeouts"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Authenticator checks back-office credentials.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (models.User, error)
}

type Handler struct {
	Users      Authenticator
	SessionMgr *auth.SessionManager
	Limiter    *ratelimit.LoginLimiter
	Audit      *auditlog.Logger // nil disables the audit trail
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
}

func NewHandler(users Authenticator, sessionMgr *auth.SessionManager, limiter *ratelimit.LoginLimiter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if limiter == nil {
		limiter = ratelimit.NewLoginLimiter()
	}
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		Limiter:    limiter,
		Log:        logger,
		ErrLog:     errLog,
	}
}

// Routes mounts POST /login.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleLogin)
	return r
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email" label:"Email"`
	Password string `json:"password" validate:"required" label:"Password"`
}

// HandleLogin handles POST /login. Unknown email, wrong password and a
// disabled account all answer the same 401.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var in loginInput
	if err := respond.Decode(w, r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, err.Error())
		return
	}
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.RenderValidation(w, r, res)
		return
	}

	if ok, msg := h.Limiter.Check(r, in.Email); !ok {
		h.Log.Warn("login rate limited", zap.String("ip", ratelimit.ClientIP(r)), zap.String("email", in.Email))
		h.Audit.LoginRateLimited(r.Context(), r, in.Email)
		w.Header().Set("Retry-After", "60")
		uierrors.Render(w, http.StatusTooManyRequests, "rate_limited", msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.Authenticate(ctx, in.Email, in.Password)
	if errors.Is(err, userstore.ErrInvalidCredentials) {
		h.Log.Info("login failed", zap.String("email", in.Email))
		h.Audit.LoginFailed(ctx, r, in.Email)
		uierrors.Render(w, http.StatusUnauthorized, uierrors.CodeUnauthorized, "Invalid email or password.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "authenticate failed", err, "Sign-in is unavailable right now. Please try again.")
		return
	}

	if err := h.SessionMgr.Login(w, r, u.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "save session failed", err, "Sign-in is unavailable right now. Please try again.")
		return
	}
	h.Limiter.ResetEmail(in.Email)
	h.Audit.LoginSuccess(ctx, r, u.ID, u.Email)
	h.Log.Info("user signed in", zap.String("user_id", u.ID.Hex()), zap.String("role", u.Role))

	respond.JSON(w, http.StatusOK, map[string]any{"user": auth.SessionUser{
		ID:    u.ID.Hex(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}})
}
