package population_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	uierrors "github.com/dalemusser/municipio/internal/app/features/errors"
	"github.com/dalemusser/municipio/internal/app/features/population"
	settingsstore "github.com/dalemusser/municipio/internal/app/store/settings"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/dalemusser/municipio/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type body struct {
	Item  *models.PopulationRecord `json:"item"`
	Items []models.PopulationRecord `json:"items"`
	Error string                    `json:"error"`
}

func newRouter(t *testing.T) (chi.Router, *population.Handler, *mongo.Database) {
	t.Helper()
	db := testutil.SetupIndexedDB(t)
	logger := zap.NewNop()
	h := population.NewHandler(db, 0, uierrors.NewErrorLogger(logger), logger)
	return population.Routes(h), h, db
}

func do(t *testing.T, r chi.Router, method, path string, v any) *testutil.ResponseRecorder {
	t.Helper()
	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewJSONRequest(t, method, path, v))
	return rec
}

func create(t *testing.T, r chi.Router, year int, pop int64) models.PopulationRecord {
	t.Helper()
	rec := do(t, r, http.MethodPost, "/", map[string]any{"ano": year, "populacao_total": pop, "fonte": "censo"})
	rec.AssertStatus(t, http.StatusCreated)
	var b body
	rec.DecodeJSON(t, &b)
	if b.Item == nil {
		t.Fatal("missing item")
	}
	return *b.Item
}

func TestCreate_DerivesFields(t *testing.T) {
	r, _, _ := newRouter(t)

	first := create(t, r, 2023, 1000)
	if first.GrowthRate != 0 {
		t.Errorf("growth without previous year = %v, want 0", first.GrowthRate)
	}

	second := create(t, r, 2024, 1050)
	if second.GrowthRate != 5.00 {
		t.Errorf("growth = %v, want 5.00", second.GrowthRate)
	}
	if second.Density != 0.11 {
		t.Errorf("density = %v, want 0.11", second.Density)
	}

	big := create(t, r, 2030, 100000)
	if big.Density != 10.49 {
		t.Errorf("density = %v, want 10.49", big.Density)
	}
	if big.GrowthRate != 0 {
		t.Errorf("growth with no 2029 record = %v, want 0", big.GrowthRate)
	}
}

func TestCreate_DuplicateYear(t *testing.T) {
	r, _, _ := newRouter(t)
	create(t, r, 2023, 1000)

	rec := do(t, r, http.MethodPost, "/", map[string]any{"ano": 2023, "populacao_total": 5, "fonte": "estimativa"})
	rec.AssertStatus(t, http.StatusConflict)
}

func TestCreate_Validation(t *testing.T) {
	r, _, _ := newRouter(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing year", map[string]any{"populacao_total": 10, "fonte": "censo"}},
		{"unknown source", map[string]any{"ano": 2020, "populacao_total": 10, "fonte": "palpite"}},
		{"negative population", map[string]any{"ano": 2020, "populacao_total": -1, "fonte": "censo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			do(t, r, http.MethodPost, "/", tt.body).AssertStatus(t, http.StatusBadRequest)
		})
	}
}

func TestUpdate_RecomputesOnlyEditedRecord(t *testing.T) {
	r, _, _ := newRouter(t)
	create(t, r, 2023, 1000)
	later := create(t, r, 2024, 1050)
	earlier := create(t, r, 2022, 500)

	// Editing 2023 does not touch the stored 2024 growth rate.
	rec := do(t, r, http.MethodPut, "/"+firstOf(t, r, 2023).ID.Hex(), map[string]any{"ano": 2023, "populacao_total": 2000, "fonte": "censo"})
	rec.AssertStatus(t, http.StatusOK)
	var b body
	rec.DecodeJSON(t, &b)
	if b.Item.GrowthRate != 300 {
		t.Errorf("2023 growth = %v, want 300", b.Item.GrowthRate)
	}
	for _, it := range b.Items {
		if it.ID == later.ID && it.GrowthRate != 5 {
			t.Errorf("2024 growth changed to %v; derived fields are not cascaded", it.GrowthRate)
		}
	}
	if len(b.Items) != 3 || b.Items[0].ID != earlier.ID {
		t.Errorf("list not ordered by year: %+v", b.Items)
	}
}

func firstOf(t *testing.T, r chi.Router, year int) models.PopulationRecord {
	t.Helper()
	rec := do(t, r, http.MethodGet, "/", nil)
	rec.AssertStatus(t, http.StatusOK)
	var b body
	rec.DecodeJSON(t, &b)
	for _, it := range b.Items {
		if it.Year == year {
			return it
		}
	}
	t.Fatalf("no record for %d", year)
	return models.PopulationRecord{}
}

func TestMutations_SyncDemographics(t *testing.T) {
	r, _, db := newRouter(t)
	settings := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	create(t, r, 2023, 1000)
	latest := create(t, r, 2024, 1050)

	got, err := settings.Get(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if got.Demographics == nil || got.Demographics.Year != 2024 || got.Demographics.GrowthRate != 5 {
		t.Errorf("demografia = %+v", got.Demographics)
	}

	do(t, r, http.MethodDelete, "/"+latest.ID.Hex(), nil).AssertStatus(t, http.StatusOK)
	got, _ = settings.Get(ctx)
	if got.Demographics == nil || got.Demographics.Year != 2023 {
		t.Errorf("after delete demografia = %+v", got.Demographics)
	}

	do(t, r, http.MethodDelete, "/"+firstOf(t, r, 2023).ID.Hex(), nil).AssertStatus(t, http.StatusOK)
	got, _ = settings.Get(ctx)
	if got.Demographics != nil {
		t.Errorf("empty history should clear demografia, got %+v", got.Demographics)
	}
}

type failingSettings struct{}

func (failingSettings) SetDemographics(context.Context, *models.Demographics) error {
	return errors.New("settings offline")
}

func TestSyncFailureIsNotFatal(t *testing.T) {
	r, h, _ := newRouter(t)
	h.Settings = failingSettings{}

	rec := do(t, r, http.MethodPost, "/", map[string]any{"ano": 2024, "populacao_total": 1050, "fonte": "censo"})
	rec.AssertStatus(t, http.StatusCreated)
}

func TestDelete_NotFound(t *testing.T) {
	r, _, _ := newRouter(t)
	do(t, r, http.MethodDelete, "/650000000000000000000000", nil).AssertStatus(t, http.StatusNotFound)
}
