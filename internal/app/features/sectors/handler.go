// internal/app/features/sectors/handler.go
package sectors

import (
	"context"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	"github.com/dalemusser/municipio/internal/app/system/ratelimit"
	"github.com/dalemusser/municipio/internal/domain/models"
	"go.uber.org/zap"
)

// Pages assembles a sector page.
type Pages interface {
	GetSectorBySlug(ctx context.Context, slug string) (models.SectorComplete, bool)
}

// Lister lists the active sectors for navigation.
type Lister interface {
	ListActive(ctx context.Context) ([]models.Sector, error)
}

// RequestWriter stores citizen submissions.
type RequestWriter interface {
	Create(ctx context.Context, req models.ServiceRequest) (models.ServiceRequest, error)
}

// Handler serves the public sector pages and their submission forms.
type Handler struct {
	Pages    Pages
	Sectors  Lister
	Requests RequestWriter
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger

	// Submissions limits the public forms per client IP. Nil disables it.
	Submissions *ratelimit.Limiter
}

func NewHandler(pages Pages, sectors Lister, requests RequestWriter, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Pages:    pages,
		Sectors:  sectors,
		Requests: requests,
		Log:      logger,
		ErrLog:   errLog,
	}
}
