// internal/app/features/population/handler.go
package population

import (
	"context"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	populationstore "github.com/dalemusser/municipio/internal/app/store/population"
	settingsstore "github.com/dalemusser/municipio/internal/app/store/settings"
	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/app/system/demographics"
	"github.com/dalemusser/municipio/internal/app/system/listview"
	"github.com/dalemusser/municipio/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DemographicsWriter stores the headline population summary.
type DemographicsWriter interface {
	SetDemographics(ctx context.Context, d *models.Demographics) error
}

// Handler owns the population history manager.
type Handler struct {
	Records  *populationstore.Store
	Settings DemographicsWriter
	AreaKm2  float64
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger

	list *listview.Manager[models.PopulationRecord]
}

// NewHandler builds the handler. areaKm2 <= 0 uses the default municipal
// area.
func NewHandler(db *mongo.Database, areaKm2 float64, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	if areaKm2 <= 0 {
		areaKm2 = demographics.DefaultAreaKm2
	}
	records := populationstore.New(db)
	return &Handler{
		Records:  records,
		Settings: settingsstore.New(db),
		AreaKm2:  areaKm2,
		Log:      logger,
		ErrLog:   errLog,
		list:     listview.NewManager[models.PopulationRecord](records, tablestore.Query{}),
	}
}
