// internal/app/features/organigram/photo.go
package organigram

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"
	"strings"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	"github.com/dalemusser/municipio/internal/app/system/listview"
	"github.com/dalemusser/municipio/internal/app/system/respond"
	"github.com/dalemusser/municipio/internal/app/system/timeouts"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var errNotImage = errors.New("photo must be an image file")

// PhotoKey is the object key of an uploaded member photo.
func PhotoKey(memberID primitive.ObjectID, filename string) string {
	return fmt.Sprintf("organigrama/%s/%s-%s", memberID.Hex(), uuid.NewString(), safeName(filename))
}

// safeName reduces an uploaded file name to letters, digits, dot, dash and
// underscore.
func safeName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteRune('-')
		}
	}
	out := strings.Trim(b.String(), ".-")
	if out == "" {
		return "foto"
	}
	return out
}

// uploadPhoto stores the file, records its key and public URL on the member,
// then removes the photo it replaced.
func (h *Handler) uploadPhoto(ctx context.Context, current models.OrganigramMember, p *photo) (models.OrganigramMember, error) {
	contentType := p.header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return models.OrganigramMember{}, errNotImage
	}

	key := PhotoKey(current.ID, p.header.Filename)
	opts := &storage.PutOptions{ContentType: contentType}
	if err := h.Objects.Put(ctx, key, p.file, opts); err != nil {
		return models.OrganigramMember{}, fmt.Errorf("store photo: %w", err)
	}
	m, err := h.Members.SetPhoto(ctx, current.ID, h.Objects.URL(key), key)
	if err != nil {
		if delErr := h.Objects.Delete(ctx, key); delErr != nil {
			h.Log.Warn("remove orphaned photo failed", zap.String("key", key), zap.Error(delErr))
		}
		return models.OrganigramMember{}, fmt.Errorf("record photo url: %w", err)
	}

	if old := current.PhotoKey; old != "" && old != key {
		if err := h.Objects.Delete(ctx, old); err != nil && !errors.Is(err, storage.ErrNotFound) {
			h.Log.Warn("remove replaced photo failed",
				zap.String("member_id", current.ID.Hex()),
				zap.String("key", old),
				zap.Error(err))
		}
	}
	return m, nil
}

// withPhoto finishes a create or update. Without a photo the write result is
// returned as is; otherwise the photo is uploaded and the list re-fetched.
func (h *Handler) withPhoto(ctx context.Context, m models.OrganigramMember, snap listview.Snapshot[models.OrganigramMember], p *photo) memberView {
	if p == nil {
		return memberView{View: snap.WithItem(m)}
	}
	updated, err := h.uploadPhoto(ctx, m, p)
	if err != nil {
		h.Log.Warn("organigram photo upload failed",
			zap.String("member_id", m.ID.Hex()),
			zap.Error(err))
		msg := "The member was saved but the photo could not be uploaded."
		if errors.Is(err, errNotImage) {
			msg = "The member was saved but the photo must be an image file."
		}
		return memberView{View: snap.WithItem(m), PhotoError: msg}
	}
	return memberView{View: h.list.FetchAll(ctx).WithItem(updated)}
}

// HandlePhoto handles POST /admin/organigrama/{id}/foto, replacing the
// member's photo.
func (h *Handler) HandlePhoto(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderBadRequest(w, r, "Invalid id.")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse photo form failed", err, "Invalid form data or photo larger than 8 MB.")
		return
	}
	p, err := formPhoto(r)
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "read photo failed", err, err.Error())
		return
	}
	if p == nil {
		uierrors.RenderBadRequest(w, r, "A photo is required.")
		return
	}
	defer p.close()

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	current, err := h.Members.Get(ctx, id)
	if err != nil {
		h.writeErr(w, r, "load", err)
		return
	}
	updated, err := h.uploadPhoto(ctx, current, p)
	switch {
	case errors.Is(err, errNotImage):
		uierrors.RenderBadRequest(w, r, "Photo must be an image file.")
		return
	case err != nil:
		h.ErrLog.LogServerError(w, r, "organigram photo upload failed", err, "The photo could not be uploaded.",
			zap.String("member_id", id.Hex()))
		return
	}
	respond.JSON(w, http.StatusOK, h.list.FetchAll(ctx).WithItem(updated))
}
