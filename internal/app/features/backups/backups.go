// internal/app/features/backups/backups.go
package backups

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	"github.com/dalemusser/municipio/internal/app/system/backup"
	"github.com/dalemusser/municipio/internal/app/system/notimpl"
	"github.com/dalemusser/municipio/internal/app/system/respond"
	"github.com/dalemusser/municipio/internal/app/system/timeouts"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// DefaultListLimit is the number of backups listed when ?limit is absent.
const DefaultListLimit = 50

type listResponse struct {
	Items []models.Backup `json:"items"`
}

type itemResponse struct {
	Item models.Backup `json:"item"`
}

func idParam(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid id.")
		return primitive.NilObjectID, false
	}
	return id, true
}

// ServeList handles GET /admin/backups, newest first.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	limit := int64(DefaultListLimit)
	if n, err := strconv.ParseInt(query.Get(r, "limit"), 10, 64); err == nil && n > 0 {
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	rows, err := h.Archives.List(ctx, limit)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list backups failed", err, "Failed to load backups.")
		return
	}
	if rows == nil {
		rows = []models.Backup{}
	}
	respond.JSON(w, http.StatusOK, listResponse{Items: rows})
}

// HandleCreate handles POST /admin/backups: a manual export of every portal
// collection.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	rec, err := h.Archives.Run(ctx, models.BackupManual)
	h.Audit.BackupCreated(r.Context(), r, rec)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "manual backup failed", err, "The backup could not be created.",
			zap.String("key", rec.Key))
		return
	}
	respond.JSON(w, http.StatusCreated, itemResponse{Item: rec})
}

// ServeDownload handles GET /admin/backups/{id}/download.
func (h *Handler) ServeDownload(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Batch())
	defer cancel()

	rec, rc, err := h.Archives.Open(ctx, id)
	if errors.Is(err, backup.ErrNotFound) {
		uierrors.RenderNotFound(w, r, "Backup not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "open backup failed", err, "The backup could not be read.",
			zap.String("backup_id", id.Hex()))
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", backup.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+rec.FileName+`"`)
	if rec.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(rec.Size, 10))
	}
	if _, err := io.Copy(w, rc); err != nil {
		h.Log.Warn("backup download interrupted", zap.String("backup_id", id.Hex()), zap.Error(err))
	}
}

// HandleRestore handles POST /admin/backups/{id}/restore.
func (h *Handler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	err := h.Restorer.Restore(r.Context(), id.Hex())
	if notimpl.Is(err) {
		uierrors.RenderNotImplemented(w, r, "Restoring a backup is not available.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "restore backup failed", err, "The backup could not be restored.")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE /admin/backups/{id}: the archive and its row.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	err := h.Archives.Remove(ctx, id)
	if errors.Is(err, backup.ErrNotFound) {
		uierrors.RenderNotFound(w, r, "Backup not found.")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "delete backup failed", err, "The backup could not be deleted.",
			zap.String("backup_id", id.Hex()))
		return
	}
	h.Audit.BackupDeleted(ctx, r, id)
	w.WriteHeader(http.StatusNoContent)
}
