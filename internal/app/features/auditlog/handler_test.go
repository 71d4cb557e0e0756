package auditlog_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/municipio/internal/app/features/auditlog"
	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	"github.com/dalemusser/municipio/internal/app/store/audit"
	"github.com/dalemusser/municipio/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type listBody struct {
	Items []struct {
		EventType string `json:"event_type"`
		Actor     string `json:"actor"`
		Target    string `json:"target"`
	} `json:"items"`
	Page       int   `json:"page"`
	TotalPages int   `json:"total_pages"`
	Total      int64 `json:"total"`
}

func setup(t *testing.T) (chi.Router, *audit.Store, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupIndexedDB(t)
	logger := zap.NewNop()
	h := auditlog.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
	return auditlog.Routes(h), h.Events, testutil.NewFixtures(t, db)
}

func get(r chi.Router, target string) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, target))
	return rec
}

func TestServeList_ResolvesNames(t *testing.T) {
	r, store, fx := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fx.CreateUser(ctx, "Maria Lopes", "maria@cm.cv", "admin", "segredo123")
	editor := fx.CreateUser(ctx, "João Tavares", "joao@cm.cv", "setor_saude", "segredo123")
	if err := store.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventUserCreated,
		ActorID:   &admin.ID,
		UserID:    &editor.ID,
		Success:   true,
	}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	rec := get(r, "/")
	rec.AssertStatus(t, http.StatusOK)
	var body listBody
	rec.DecodeJSON(t, &body)
	if len(body.Items) != 1 {
		t.Fatalf("got %d items, want 1", len(body.Items))
	}
	if body.Items[0].Actor != "Maria Lopes" || body.Items[0].Target != "João Tavares" {
		t.Errorf("names = %q/%q", body.Items[0].Actor, body.Items[0].Target)
	}
	if body.Total != 1 || body.TotalPages != 1 {
		t.Errorf("total = %d pages = %d", body.Total, body.TotalPages)
	}
}

func TestServeList_FiltersAndPages(t *testing.T) {
	r, store, _ := setup(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 55; i++ {
		e := audit.Event{
			Timestamp: base.Add(time.Duration(i) * time.Minute),
			Category:  audit.CategoryAuth,
			EventType: audit.EventLoginFailed,
		}
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}
	if err := store.Log(ctx, audit.Event{
		Timestamp: base.AddDate(0, 0, 5),
		Category:  audit.CategoryAdmin,
		EventType: audit.EventSettingsUpdated,
		Success:   true,
	}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}

	tests := []struct {
		name      string
		target    string
		wantItems int
		wantTotal int64
	}{
		{"first page", "/", 50, 56},
		{"second page", "/?pagina=2", 6, 56},
		{"category", "/?categoria=admin", 1, 1},
		{"event type", "/?tipo=login_failed&pagina=2", 5, 55},
		{"date range", "/?de=2026-03-15&ate=2026-03-15", 1, 1},
		{"before range", "/?ate=2026-03-09", 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(r, tt.target)
			rec.AssertStatus(t, http.StatusOK)
			var body listBody
			rec.DecodeJSON(t, &body)
			if len(body.Items) != tt.wantItems {
				t.Errorf("items = %d, want %d", len(body.Items), tt.wantItems)
			}
			if body.Total != tt.wantTotal {
				t.Errorf("total = %d, want %d", body.Total, tt.wantTotal)
			}
		})
	}
}

func TestServeList_BadFilters(t *testing.T) {
	r, _, _ := setup(t)
	for _, target := range []string{
		"/?categoria=billing",
		"/?utilizador=nope",
		"/?de=15-03-2026",
	} {
		get(r, target).AssertStatus(t, http.StatusBadRequest)
	}
	get(r, "/?utilizador="+primitive.NewObjectID().Hex()).AssertStatus(t, http.StatusOK)
}

func TestServeEventTypes(t *testing.T) {
	r, _, _ := setup(t)
	rec := get(r, "/tipos")
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, audit.EventRequestStateChanged)
}
