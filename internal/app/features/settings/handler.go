// internal/app/features/settings/handler.go
package settings

import (
	"context"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	settingsstore "github.com/dalemusser/municipio/internal/app/store/settings"
	"github.com/dalemusser/municipio/internal/app/system/auditlog"
	"github.com/dalemusser/municipio/internal/app/system/notimpl"
	"github.com/dalemusser/municipio/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SettingsStore reads and writes the single settings document.
type SettingsStore interface {
	Get(ctx context.Context) (models.SiteSettings, error)
	Save(ctx context.Context, s models.SiteSettings) (models.SiteSettings, error)
}

// Handler owns all admin-facing Settings handlers.
type Handler struct {
	Settings    SettingsStore
	Maintenance notimpl.Maintenance
	Audit       *auditlog.Logger
	Log         *zap.Logger
	ErrLog      *uierrors.ErrorLogger
}

// NewHandler constructs a Handler bound to the given Mongo database and logger.
func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Settings:    settingsstore.New(db),
		Maintenance: notimpl.Stub{},
		Log:         logger,
		ErrLog:      errLog,
	}
}
