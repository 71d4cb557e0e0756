// internal/app/features/backups/handler.go
package backups

import (
	"context"
	"io"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	"github.com/dalemusser/municipio/internal/app/system/auditlog"
	"github.com/dalemusser/municipio/internal/app/system/notimpl"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Archiver runs, lists, opens and removes backups. *backup.Exporter
// implements it.
type Archiver interface {
	Run(ctx context.Context, origin string) (models.Backup, error)
	List(ctx context.Context, limit int64) ([]models.Backup, error)
	Open(ctx context.Context, id primitive.ObjectID) (models.Backup, io.ReadCloser, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
}

// Handler serves the backups manager.
type Handler struct {
	Archives Archiver
	Restorer notimpl.Restorer
	Audit    *auditlog.Logger
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

// NewHandler builds the handler. Restore has no implementation and always
// answers 501.
func NewHandler(archives Archiver, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Archives: archives,
		Restorer: notimpl.Stub{},
		Log:      logger,
		ErrLog:   errLog,
	}
}

// Routes mounts the manager under /admin/backups.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeList)
	r.Post("/", h.HandleCreate)
	r.Get("/{id}/download", h.ServeDownload)
	r.Post("/{id}/restore", h.HandleRestore)
	r.Delete("/{id}", h.HandleDelete)
	return r
}
