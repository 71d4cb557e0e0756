package departmentstore_test

import (
	"testing"

	departmentstore "github.com/dalemusser/municipio/internal/app/store/departments"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/dalemusser/municipio/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestStore_SeedIsIdempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := departmentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	added, err := store.Seed(ctx, models.DefaultDepartments)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if added != len(models.DefaultDepartments) {
		t.Errorf("first Seed added %d, want %d", added, len(models.DefaultDepartments))
	}

	added, err = store.Seed(ctx, models.DefaultDepartments)
	if err != nil {
		t.Fatalf("second Seed failed: %v", err)
	}
	if added != 0 {
		t.Errorf("second Seed added %d, want 0", added)
	}

	names, err := store.ActiveNames(ctx)
	if err != nil {
		t.Fatalf("ActiveNames failed: %v", err)
	}
	if len(names) != len(models.DefaultDepartments) || names[0] != models.DefaultDepartments[0] {
		t.Errorf("ActiveNames = %v", names)
	}
}

func TestStore_IsActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := departmentstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Seed(ctx, []string{"Presidência", "Obras Públicas e Urbanismo"}); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	ok, err := store.IsActive(ctx, "Presidência")
	if err != nil || !ok {
		t.Errorf("IsActive(Presidência) = %v, %v", ok, err)
	}

	obras, err := store.FindOne(ctx, bson.M{"nome": "Obras Públicas e Urbanismo"})
	if err != nil {
		t.Fatalf("FindOne failed: %v", err)
	}
	if _, err := store.Update(ctx, obras.ID, bson.M{"ativo": false}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	ok, err = store.IsActive(ctx, "Obras Públicas e Urbanismo")
	if err != nil || ok {
		t.Errorf("IsActive(inactive) = %v, %v", ok, err)
	}
	ok, _ = store.IsActive(ctx, "Inexistente")
	if ok {
		t.Error("IsActive(unknown) = true")
	}
}
