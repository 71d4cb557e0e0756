// internal/app/features/sectoradmin/handler.go
package sectoradmin

import (
	"context"
	"errors"
	"net/http"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	sectorstore "github.com/dalemusser/municipio/internal/app/store/sectors"
	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/app/system/authz"
	"github.com/dalemusser/municipio/internal/app/system/timeouts"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler owns the back-office screens for sectors and their child
// collections. Admins manage every sector; a sector role manages only its
// own sector and cannot create or delete sectors.
type Handler struct {
	Sectors  *sectorstore.Store
	Children sectorstore.Children
	Log      *zap.Logger
	ErrLog   *uierrors.ErrorLogger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Sectors:  sectorstore.New(db),
		Children: sectorstore.NewChildren(db),
		Log:      logger,
		ErrLog:   errLog,
	}
}

type ctxKey struct{}

func sectorFrom(r *http.Request) models.Sector {
	s, _ := r.Context().Value(ctxKey{}).(models.Sector)
	return s
}

// loadSector resolves {sectorID} and checks the user may manage it.
func (h *Handler) loadSector(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "sectorID"))
		if err != nil {
			uierrors.RenderBadRequest(w, r, "Invalid sector id.")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		sec, err := h.Sectors.Get(ctx, id)
		cancel()
		if errors.Is(err, tablestore.ErrNotFound) {
			uierrors.RenderNotFound(w, r, "Sector not found.")
			return
		}
		if err != nil {
			h.ErrLog.LogServerError(w, r, "load sector failed", err, "Failed to load sector.", zap.String("id", id.Hex()))
			return
		}
		if !authz.RequestCanManageSector(r, sec.Slug) {
			h.ErrLog.LogForbidden(w, r, "sector access denied", "You can only manage your own sector.", zap.String("slug", sec.Slug))
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, sec)))
	})
}

// writeErr maps a repository error to a response.
func (h *Handler) writeErr(w http.ResponseWriter, r *http.Request, op, collection string, err error) {
	switch {
	case errors.Is(err, tablestore.ErrNotFound):
		uierrors.RenderNotFound(w, r, "Item not found.")
	case errors.Is(err, sectorstore.ErrEmptySlug):
		uierrors.RenderBadRequest(w, r, "The slug must contain letters or digits.")
	case errors.Is(err, tablestore.ErrDuplicate), errors.Is(err, sectorstore.ErrDuplicateSlug):
		uierrors.RenderConflict(w, r, "An item with the same key already exists.")
	default:
		h.ErrLog.LogServerError(w, r, op+" failed", err, "The change could not be saved. Please try again.",
			zap.String("collection", collection))
	}
}
