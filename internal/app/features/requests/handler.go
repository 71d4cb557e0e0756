// internal/app/features/requests/handler.go
package requests

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	requeststore "github.com/dalemusser/municipio/internal/app/store/requests"
	sectorstore "github.com/dalemusser/municipio/internal/app/store/sectors"
	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/app/system/auditlog"
	"github.com/dalemusser/municipio/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the service requests manager. Admins see every sector;
// sector roles see only their own.
type Handler struct {
	Requests *requeststore.Store
	Sectors  *sectorstore.Store
	Audit    *auditlog.Logger
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Requests: requeststore.New(db),
		Sectors:  sectorstore.New(db),
		Log:      logger,
		ErrLog:   errLog,
	}
}

// Routes mounts the manager under /admin/solicitacoes.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Patch("/{id}", h.HandleState)
	r.Delete("/{id}", h.HandleDelete)
	return r
}

var errNoSector = errors.New("sector role names a sector that does not exist")

// scope returns the sector a non-admin user is limited to. Admins get the
// zero id and ok.
func (h *Handler) scope(ctx context.Context, w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	role, _, _, _ := authz.UserCtx(r)
	if authz.IsAdmin(role) {
		return primitive.NilObjectID, true
	}
	slug := authz.SectorOf(role)
	if slug == "" {
		h.ErrLog.LogForbidden(w, r, "requests access denied", "You do not have access to service requests.")
		return primitive.NilObjectID, false
	}
	sec, err := h.Sectors.GetBySlug(ctx, slug)
	if errors.Is(err, tablestore.ErrNotFound) {
		h.ErrLog.LogForbidden(w, r, "requests access denied", "Your sector no longer exists.", zap.Error(errNoSector), zap.String("slug", slug))
		return primitive.NilObjectID, false
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load sector failed", err, "Failed to load your sector.", zap.String("slug", slug))
		return primitive.NilObjectID, false
	}
	return sec.ID, true
}
