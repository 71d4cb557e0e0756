// internal/app/features/population/sync.go
package population

import (
	"context"
	"errors"

	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/app/system/demographics"
	"go.uber.org/zap"
)

// syncDemographics copies the latest year's record into the settings
// document. Failures are logged; the write that triggered the sync has
// already succeeded.
func (h *Handler) syncDemographics(ctx context.Context) {
	rec, err := h.Records.Latest(ctx)
	switch {
	case errors.Is(err, tablestore.ErrNotFound):
		err = h.Settings.SetDemographics(ctx, nil)
	case err != nil:
		h.Log.Warn("demographic sync: load latest record failed", zap.Error(err))
		return
	default:
		summary := demographics.Summary(rec)
		err = h.Settings.SetDemographics(ctx, &summary)
	}
	if err != nil {
		h.Log.Warn("demographic sync failed", zap.Error(err))
	}
}
