package requests_test

import (
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	"github.com/dalemusser/municipio/internal/app/features/requests"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/dalemusser/municipio/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type listBody struct {
	Items []models.ServiceRequest `json:"items"`
}

func newRouter(t *testing.T) (chi.Router, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	return requests.Routes(requests.NewHandler(db, uierrors.NewErrorLogger(logger), logger)), testutil.NewFixtures(t, db)
}

func serve(r chi.Router, req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestList_FiltersAndScope(t *testing.T) {
	r, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	agri := fx.CreateSector(ctx, "agricultura", "Agricultura", 1)
	saude := fx.CreateSector(ctx, "saude", "Saúde", 2)
	fx.CreateRequest(ctx, agri.ID, models.RequestApplication, models.RequestPending)
	fx.CreateRequest(ctx, agri.ID, models.RequestEnrollment, models.RequestApproved)
	fx.CreateRequest(ctx, saude.ID, models.RequestEnrollment, models.RequestPending)

	tests := []struct {
		name   string
		user   testutil.TestUser
		target string
		want   int
	}{
		{"admin all", testutil.AdminUser(), "/", 3},
		{"admin by sector", testutil.AdminUser(), "/?setor_id=" + agri.ID.Hex(), 2},
		{"admin by state", testutil.AdminUser(), "/?estado=pendente", 2},
		{"sector role sees own only", testutil.SectorUser("saude"), "/", 1},
		{"sector role cannot widen", testutil.SectorUser("saude"), "/?setor_id=" + agri.ID.Hex(), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(r, testutil.NewAuthenticatedRequest(t, http.MethodGet, tt.target, tt.user, nil))
			rec.AssertStatus(t, http.StatusOK)
			var b listBody
			rec.DecodeJSON(t, &b)
			if len(b.Items) != tt.want {
				t.Errorf("got %d items, want %d", len(b.Items), tt.want)
			}
		})
	}

	serve(r, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/?estado=perdido", testutil.AdminUser(), nil)).
		AssertStatus(t, http.StatusBadRequest)
	serve(r, testutil.NewAuthenticatedRequest(t, http.MethodGet, "/", testutil.SectorUser("pescas"), nil)).
		AssertStatus(t, http.StatusForbidden)
}

func TestHandleState(t *testing.T) {
	r, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	agri := fx.CreateSector(ctx, "agricultura", "Agricultura", 1)
	req := fx.CreateRequest(ctx, agri.ID, models.RequestApplication, models.RequestPending)
	target := "/" + req.ID.Hex()

	rec := serve(r, testutil.NewAuthenticatedRequest(t, http.MethodPatch, target, testutil.SectorUser("agricultura"), map[string]any{"estado": "em_analise"}))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, `"estado":"em_analise"`)

	serve(r, testutil.NewAuthenticatedRequest(t, http.MethodPatch, target, testutil.AdminUser(), map[string]any{"estado": "arquivada"})).
		AssertStatus(t, http.StatusBadRequest)

	fx.CreateSector(ctx, "saude", "Saúde", 2)
	serve(r, testutil.NewAuthenticatedRequest(t, http.MethodPatch, target, testutil.SectorUser("saude"), map[string]any{"estado": "aprovada"})).
		AssertStatus(t, http.StatusNotFound)
}

func TestHandleDelete(t *testing.T) {
	r, fx := newRouter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	agri := fx.CreateSector(ctx, "agricultura", "Agricultura", 1)
	req := fx.CreateRequest(ctx, agri.ID, models.RequestEnrollment, models.RequestPending)

	serve(r, testutil.NewAuthenticatedRequest(t, http.MethodDelete, "/"+req.ID.Hex(), testutil.AdminUser(), nil)).
		AssertStatus(t, http.StatusNoContent)
	serve(r, testutil.NewAuthenticatedRequest(t, http.MethodDelete, "/"+req.ID.Hex(), testutil.AdminUser(), nil)).
		AssertStatus(t, http.StatusNotFound)
}
