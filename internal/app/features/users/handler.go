// internal/app/features/users/handler.go
package users

import (
	"context"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	sectorstore "github.com/dalemusser/municipio/internal/app/store/sectors"
	userstore "github.com/dalemusser/municipio/internal/app/store/users"
	"github.com/dalemusser/municipio/internal/app/system/auditlog"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SlugSource lists the sector slugs a sector role may name.
type SlugSource interface {
	Slugs(ctx context.Context) (map[string]bool, error)
}

// Handler manages back-office accounts.
type Handler struct {
	Users   *userstore.Store
	Sectors SlugSource
	Audit   *auditlog.Logger
	Log     *zap.Logger
	ErrLog  *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:   userstore.New(db),
		Sectors: sectorstore.New(db),
		Log:     logger,
		ErrLog:  errLog,
	}
}

// Routes mounts the manager under /admin/utilizadores. Bootstrap wraps it in
// an admin-only group.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}", h.ServeUser)
	r.Put("/{id}", h.HandleUpdate)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
