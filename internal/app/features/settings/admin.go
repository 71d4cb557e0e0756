// internal/app/features/settings/admin.go
package settings

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	"github.com/dalemusser/municipio/internal/app/system/authz"
	"github.com/dalemusser/municipio/internal/app/system/htmlsanitize"
	"github.com/dalemusser/municipio/internal/app/system/inputval"
	"github.com/dalemusser/municipio/internal/app/system/normalize"
	"github.com/dalemusser/municipio/internal/app/system/notimpl"
	"github.com/dalemusser/municipio/internal/app/system/respond"
	"github.com/dalemusser/municipio/internal/app/system/timeouts"
	"github.com/dalemusser/municipio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type settingsInput struct {
	SiteName     string `json:"nome_site" validate:"required,max=200" label:"Site name"`
	ContactEmail string `json:"email_contacto" validate:"omitempty,email,max=254" label:"Contact email"`
	ContactPhone string `json:"telefone_contacto" validate:"max=50" label:"Contact phone"`
	Address      string `json:"endereco" validate:"max=500" label:"Address"`
	FooterHTML   string `json:"rodape_html" validate:"max=20000" label:"Footer"`
	Maintenance  bool   `json:"modo_manutencao" label:"Maintenance mode"`
}

type settingsResponse struct {
	Item models.SiteSettings `json:"item"`
}

// publicSettings is what the public site may read.
type publicSettings struct {
	SiteName     string               `json:"nome_site"`
	ContactEmail string               `json:"email_contacto,omitempty"`
	ContactPhone string               `json:"telefone_contacto,omitempty"`
	Address      string               `json:"endereco,omitempty"`
	FooterHTML   string               `json:"rodape_html,omitempty"`
	Maintenance  bool                 `json:"modo_manutencao"`
	Demographics *models.Demographics `json:"demografia,omitempty"`
}

// ServeSettings handles GET /admin/configuracoes. Defaults are returned when
// nothing has been saved yet.
func (h *Handler) ServeSettings(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	s, err := h.Settings.Get(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load settings failed", err, "Failed to load settings.")
		return
	}
	respond.JSON(w, http.StatusOK, settingsResponse{Item: s})
}

// ServePublic handles GET /site.
func (h *Handler) ServePublic(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	s, err := h.Settings.Get(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "load settings failed", err, "Failed to load site information.")
		return
	}
	respond.JSON(w, http.StatusOK, publicSettings{
		SiteName:     s.SiteName,
		ContactEmail: s.ContactEmail,
		ContactPhone: s.ContactPhone,
		Address:      s.Address,
		FooterHTML:   s.FooterHTML,
		Maintenance:  s.Maintenance,
		Demographics: s.Demographics,
	})
}

// HandleSettings handles PUT /admin/configuracoes.
func (h *Handler) HandleSettings(w http.ResponseWriter, r *http.Request) {
	var in settingsInput
	if err := respond.Decode(w, r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, err.Error())
		return
	}
	in.SiteName = strings.TrimSpace(in.SiteName)
	in.ContactEmail = normalize.Email(in.ContactEmail)
	in.ContactPhone = strings.TrimSpace(in.ContactPhone)
	in.Address = strings.TrimSpace(in.Address)
	in.FooterHTML = htmlsanitize.Sanitize(strings.TrimSpace(in.FooterHTML))
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.RenderValidation(w, r, res)
		return
	}

	_, uname, uid, ok := authz.UserCtx(r)
	var updatedBy *primitive.ObjectID
	if ok {
		updatedBy = &uid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	saved, err := h.Settings.Save(ctx, models.SiteSettings{
		SiteName:      in.SiteName,
		ContactEmail:  in.ContactEmail,
		ContactPhone:  in.ContactPhone,
		Address:       in.Address,
		FooterHTML:    in.FooterHTML,
		Maintenance:   in.Maintenance,
		UpdatedByID:   updatedBy,
		UpdatedByName: uname,
	})
	if err != nil {
		h.ErrLog.LogServerError(w, r, "save settings failed", err, "Failed to save settings.")
		return
	}
	h.Audit.SettingsUpdated(ctx, r)
	respond.JSON(w, http.StatusOK, settingsResponse{Item: saved})
}

// HandlePurgeCache handles POST /admin/configuracoes/limpar-cache.
func (h *Handler) HandlePurgeCache(w http.ResponseWriter, r *http.Request) {
	h.maintenance(w, r, "Clearing the cache is not available.", h.Maintenance.PurgeCache(r.Context()))
}

type testEmailInput struct {
	To string `json:"para" validate:"required,email" label:"Recipient"`
}

// HandleTestEmail handles POST /admin/configuracoes/email-teste.
func (h *Handler) HandleTestEmail(w http.ResponseWriter, r *http.Request) {
	var in testEmailInput
	if err := respond.Decode(w, r, &in); err != nil {
		uierrors.RenderBadRequest(w, r, err.Error())
		return
	}
	in.To = normalize.Email(in.To)
	if res := inputval.Validate(in); res.HasErrors() {
		uierrors.RenderValidation(w, r, res)
		return
	}
	h.maintenance(w, r, "Sending a test email is not available.", h.Maintenance.SendTestEmail(r.Context(), in.To))
}

func (h *Handler) maintenance(w http.ResponseWriter, r *http.Request, unavailable string, err error) {
	switch {
	case notimpl.Is(err):
		uierrors.RenderNotImplemented(w, r, unavailable)
	case err != nil:
		h.ErrLog.LogServerError(w, r, "maintenance action failed", err, "The action failed.")
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}
