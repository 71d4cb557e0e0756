// internal/app/features/sectors/submit.go
package sectors

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	"github.com/dalemusser/municipio/internal/app/system/htmlsanitize"
	"github.com/dalemusser/municipio/internal/app/system/inputval"
	"github.com/dalemusser/municipio/internal/app/system/normalize"
	"github.com/dalemusser/municipio/internal/app/system/respond"
	"github.com/dalemusser/municipio/internal/app/system/timeouts"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type submissionInput struct {
	ReferenceID string `json:"referencia_id" validate:"required,objectid" label:"Reference"`
	Name        string `json:"nome" validate:"required,max=120" label:"Name"`
	Email       string `json:"email" validate:"required,email,max=254" label:"Email"`
	Phone       string `json:"telefone" validate:"omitempty,max=40" label:"Phone"`
	Message     string `json:"mensagem" validate:"omitempty,max=4000" label:"Message"`
}

// HandleApplication handles POST /setores/{slug}/candidaturas: an
// application to one of the sector's active opportunities.
func (h *Handler) HandleApplication(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, models.RequestApplication)
}

// HandleEnrollment handles POST /setores/{slug}/inscricoes: an enrollment
// in one of the sector's active programs.
func (h *Handler) HandleEnrollment(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, models.RequestEnrollment)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request, kind string) {
	slug := chi.URLParam(r, "slug")

	var in submissionInput
	if err := respond.Decode(w, r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, err.Error())
		return
	}
	in.Name = normalize.Name(in.Name)
	in.Email = normalize.Email(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Message = htmlsanitize.StripTags(in.Message)
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.RenderValidation(w, r, res)
		return
	}
	refID, _ := primitive.ObjectIDFromHex(in.ReferenceID)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	sc, ok := h.Pages.GetSectorBySlug(ctx, slug)
	if !ok {
		uierrors.RenderNotFound(w, r, NotFoundMessage)
		return
	}
	if !offers(sc, kind, refID) {
		uierrors.RenderBadRequest(w, r, "The selected item is not offered by this sector.")
		return
	}

	req, err := h.Requests.Create(ctx, models.ServiceRequest{
		SectorID:    sc.ID,
		Kind:        kind,
		ReferenceID: refID,
		Name:        in.Name,
		Email:       in.Email,
		Phone:       in.Phone,
		Message:     in.Message,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "store service request failed", err,
			"Your request could not be submitted. Please try again.",
			zap.String("slug", slug), zap.String("kind", kind))
		return
	}
	respond.JSON(w, http.StatusCreated, req)
}

// offers reports whether refID is an active program (enrollments) or
// opportunity (applications) of sc.
func offers(sc models.SectorComplete, kind string, refID primitive.ObjectID) bool {
	switch kind {
	case models.RequestApplication:
		for _, o := range sc.Opportunities {
			if o.ID == refID {
				return true
			}
		}
	case models.RequestEnrollment:
		for _, p := range sc.Programs {
			if p.ID == refID {
				return true
			}
		}
	}
	return false
}
