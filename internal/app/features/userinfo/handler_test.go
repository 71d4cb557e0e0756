package userinfo_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/municipio/internal/app/features/userinfo"
	"github.com/dalemusser/municipio/internal/testutil"
)

type body struct {
	ID     string `json:"id"`
	Role   string `json:"role"`
	Admin  bool   `json:"admin"`
	Sector string `json:"setor"`
}

func TestServeUserInfo(t *testing.T) {
	r := userinfo.Routes(userinfo.NewHandler())

	t.Run("signed out", func(t *testing.T) {
		rec := testutil.NewRecorder()
		r.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/"))
		rec.AssertStatus(t, http.StatusUnauthorized)
	})

	t.Run("admin", func(t *testing.T) {
		rec := testutil.NewRecorder()
		r.ServeHTTP(rec, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/", testutil.AdminUser(), nil))
		rec.AssertStatus(t, http.StatusOK)
		var b body
		rec.DecodeJSON(t, &b)
		if !b.Admin || b.Sector != "" {
			t.Errorf("got %+v", b)
		}
	})

	t.Run("sector editor", func(t *testing.T) {
		rec := testutil.NewRecorder()
		r.ServeHTTP(rec, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/", testutil.SectorUser("saude"), nil))
		rec.AssertStatus(t, http.StatusOK)
		var b body
		rec.DecodeJSON(t, &b)
		if b.Admin || b.Sector != "saude" || b.Role != "setor_saude" {
			t.Errorf("got %+v", b)
		}
	})
}
