package settingsstore_test

import (
	"testing"

	settingsstore "github.com/dalemusser/municipio/internal/app/store/settings"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/dalemusser/municipio/internal/testutil"
)

func TestStore_GetReturnsDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.SiteName != models.DefaultSiteName {
		t.Errorf("SiteName = %q, want %q", got.SiteName, models.DefaultSiteName)
	}
	if got.Demographics != nil {
		t.Error("expected no demographics by default")
	}
}

func TestStore_SaveKeepsSingleDocument(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Save(ctx, models.SiteSettings{SiteName: "Câmara Municipal"}); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	saved, err := store.Save(ctx, models.SiteSettings{SiteName: "Câmara Municipal da Praia", Maintenance: true})
	if err != nil {
		t.Fatalf("second Save failed: %v", err)
	}
	if saved.SiteName != "Câmara Municipal da Praia" || !saved.Maintenance {
		t.Errorf("saved = %+v", saved)
	}

	n, err := db.Collection("configuracoes").CountDocuments(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("configuracoes has %d documents, want 1", n)
	}
}

func TestStore_SetDemographicsSurvivesSave(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := settingsstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	d := &models.Demographics{Year: 2024, Population: 1050, GrowthRate: 5, Density: 0.11}
	if err := store.SetDemographics(ctx, d); err != nil {
		t.Fatalf("SetDemographics failed: %v", err)
	}
	if _, err := store.Save(ctx, models.SiteSettings{SiteName: "Portal"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Get(ctx)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Demographics == nil || got.Demographics.Year != 2024 || got.Demographics.GrowthRate != 5 {
		t.Errorf("Demographics = %+v", got.Demographics)
	}

	if err := store.SetDemographics(ctx, nil); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	got, _ = store.Get(ctx)
	if got.Demographics != nil {
		t.Errorf("Demographics not cleared: %+v", got.Demographics)
	}
}
