package organigramstore_test

import (
	"errors"
	"testing"

	organigramstore "github.com/dalemusser/municipio/internal/app/store/organigram"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/dalemusser/municipio/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSuperiorOptions_ExcludesOnlySelf(t *testing.T) {
	a := models.OrganigramMember{ID: primitive.NewObjectID(), Name: "A"}
	b := models.OrganigramMember{ID: primitive.NewObjectID(), Name: "B"}
	c := models.OrganigramMember{ID: primitive.NewObjectID(), Name: "C"}
	members := []models.OrganigramMember{a, b, c}

	opts := organigramstore.SuperiorOptions(members, b.ID)
	if len(opts) != 2 {
		t.Fatalf("got %d options, want 2", len(opts))
	}
	for _, o := range opts {
		if o.ID == b.ID {
			t.Error("member being edited offered as its own superior")
		}
	}

	if got := organigramstore.SuperiorOptions(members, primitive.NilObjectID); len(got) != 3 {
		t.Errorf("create mode: got %d options, want 3", len(got))
	}
}

func TestStore_RejectsSelfSuperior(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organigramstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m, err := store.Create(ctx, models.OrganigramMember{Name: "Presidente", Role: "Presidente", Department: "Presidência", Active: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	_, err = store.Update(ctx, m.ID, bson.M{"superior_id": m.ID})
	if !errors.Is(err, organigramstore.ErrSelfSuperior) {
		t.Errorf("err = %v, want ErrSelfSuperior", err)
	}
}

func TestStore_RejectsUnknownSuperior(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organigramstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ghost := primitive.NewObjectID()
	_, err := store.Create(ctx, models.OrganigramMember{Name: "X", SuperiorID: &ghost})
	if !errors.Is(err, organigramstore.ErrUnknownSuperior) {
		t.Errorf("err = %v, want ErrUnknownSuperior", err)
	}
}

// Two members pointing at each other form a cycle the store accepts.
func TestStore_AcceptsTwoMemberCycle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organigramstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, models.OrganigramMember{Name: "A"})
	if err != nil {
		t.Fatalf("Create A failed: %v", err)
	}
	b, err := store.Create(ctx, models.OrganigramMember{Name: "B", SuperiorID: &a.ID})
	if err != nil {
		t.Fatalf("Create B failed: %v", err)
	}

	a, err = store.Update(ctx, a.ID, bson.M{"superior_id": b.ID})
	if err != nil {
		t.Fatalf("cycle update rejected: %v", err)
	}
	if a.SuperiorID == nil || *a.SuperiorID != b.ID {
		t.Errorf("A.superior = %v, want %v", a.SuperiorID, b.ID)
	}
}

func TestStore_DeleteDetachesSubordinates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organigramstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	boss, err := store.Create(ctx, models.OrganigramMember{Name: "Boss"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	sub, err := store.Create(ctx, models.OrganigramMember{Name: "Sub", SuperiorID: &boss.ID})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.Delete(ctx, boss.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	got, err := store.Get(ctx, sub.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.SuperiorID != nil {
		t.Errorf("subordinate still points at deleted member: %v", got.SuperiorID)
	}
}

func TestStore_SetPhoto(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := organigramstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	m, err := store.Create(ctx, models.OrganigramMember{Name: "Ana"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	got, err := store.SetPhoto(ctx, m.ID, "https://cdn.example/ana.png", "organigrama/ana.png")
	if err != nil {
		t.Fatalf("SetPhoto failed: %v", err)
	}
	if got.PhotoURL != "https://cdn.example/ana.png" || got.PhotoKey != "organigrama/ana.png" {
		t.Errorf("PhotoURL = %q, PhotoKey = %q", got.PhotoURL, got.PhotoKey)
	}
}
