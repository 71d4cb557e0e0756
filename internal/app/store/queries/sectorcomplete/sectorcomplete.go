// internal/app/store/queries/sectorcomplete/sectorcomplete.go
package sectorcomplete

import (
	"context"
	"errors"

	sectorstore "github.com/dalemusser/municipio/internal/app/store/sectors"
	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/app/system/metrics"
	"github.com/dalemusser/municipio/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SectorSource resolves an active sector by slug.
type SectorSource interface {
	GetActiveBySlug(ctx context.Context, slug string) (models.Sector, error)
}

// ChildSource lists the rows of one child collection.
type ChildSource[T any] interface {
	List(ctx context.Context, q tablestore.Query) ([]T, error)
}

// Sources are the repositories a sector page is assembled from.
type Sources struct {
	Sectors         SectorSource
	Statistics      ChildSource[models.SectorStatistic]
	Programs        ChildSource[models.Program]
	Opportunities   ChildSource[models.Opportunity]
	Infrastructures ChildSource[models.Infrastructure]
	Contacts        ChildSource[models.Contact]
}

// Aggregator builds SectorComplete values. It holds no state between calls.
type Aggregator struct {
	src    Sources
	logger *zap.Logger
}

func New(src Sources, logger *zap.Logger) *Aggregator {
	return &Aggregator{src: src, logger: logger}
}

// FromDB wires an Aggregator to the sector collections in db.
func FromDB(db *mongo.Database, logger *zap.Logger) *Aggregator {
	children := sectorstore.NewChildren(db)
	return New(Sources{
		Sectors:         sectorstore.New(db),
		Statistics:      children.Statistics,
		Programs:        children.Programs,
		Opportunities:   children.Opportunities,
		Infrastructures: children.Infrastructures,
		Contacts:        children.Contacts,
	}, logger)
}

// GetSectorBySlug returns the active sector with slug and its five child
// collections. ok is false when the sector does not exist, is inactive, or
// could not be read. A child collection that fails to load is logged and
// returned empty; the page still renders.
func (a *Aggregator) GetSectorBySlug(ctx context.Context, slug string) (models.SectorComplete, bool) {
	sector, err := a.src.Sectors.GetActiveBySlug(ctx, slug)
	if err != nil {
		if !errors.Is(err, tablestore.ErrNotFound) {
			a.logger.Warn("sector lookup failed", zap.String("slug", slug), zap.Error(err))
		}
		metrics.SectorAggregations.WithLabelValues("not_found").Inc()
		return models.SectorComplete{}, false
	}

	out := models.SectorComplete{Sector: sector}
	parent := sector.ID
	all := tablestore.Query{ParentID: &parent}
	active := tablestore.Query{ParentID: &parent, ActiveOnly: true}

	// Each fetch writes only its own field and never returns an error, so
	// one failure does not cancel the others.
	var g errgroup.Group
	g.Go(func() error {
		out.Statistics = fetch(ctx, a, sectorstore.Statistics.Name, slug, a.src.Statistics, all)
		return nil
	})
	g.Go(func() error {
		out.Programs = fetch(ctx, a, sectorstore.Programs.Name, slug, a.src.Programs, active)
		return nil
	})
	g.Go(func() error {
		out.Opportunities = fetch(ctx, a, sectorstore.Opportunities.Name, slug, a.src.Opportunities, active)
		return nil
	})
	g.Go(func() error {
		out.Infrastructures = fetch(ctx, a, sectorstore.Infrastructures.Name, slug, a.src.Infrastructures, active)
		return nil
	})
	g.Go(func() error {
		out.Contacts = fetch(ctx, a, sectorstore.Contacts.Name, slug, a.src.Contacts, all)
		return nil
	})
	_ = g.Wait()

	metrics.SectorAggregations.WithLabelValues("ok").Inc()
	return out, true
}

func fetch[T any](ctx context.Context, a *Aggregator, collection, slug string, src ChildSource[T], q tablestore.Query) []T {
	rows, err := src.List(ctx, q)
	if err != nil {
		a.logger.Warn("sector child fetch failed; serving empty list",
			zap.String("slug", slug),
			zap.String("collection", collection),
			zap.Error(err))
		metrics.ChildFetchFailures.WithLabelValues(collection).Inc()
		return []T{}
	}
	if rows == nil {
		return []T{}
	}
	return rows
}
