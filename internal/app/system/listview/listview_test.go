package listview

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type row struct {
	ID   primitive.ObjectID
	Name string
}

// fakeRepo is an in-memory Repository whose List can be made to fail.
type fakeRepo struct {
	mu       sync.Mutex
	rows     []row
	listErr  error
	writeErr error
	lists    int
}

func (f *fakeRepo) List(_ context.Context, _ tablestore.Query) ([]row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]row, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeRepo) Create(_ context.Context, v any) (row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.writeErr != nil {
		return row{}, f.writeErr
	}
	r := v.(row)
	r.ID = primitive.NewObjectID()
	f.rows = append(f.rows, r)
	return r, nil
}

func (f *fakeRepo) Update(_ context.Context, id primitive.ObjectID, v any) (row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows[i].Name = v.(string)
			return f.rows[i], nil
		}
	}
	return row{}, tablestore.ErrNotFound
}

func (f *fakeRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = append(f.rows[:i], f.rows[i+1:]...)
			return nil
		}
	}
	return tablestore.ErrNotFound
}

func TestManager_FetchAllKeepsLastGoodListOnError(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{rows: []row{{Name: "a"}, {Name: "b"}}}
	m := NewManager[row](repo, tablestore.Query{})

	snap := m.FetchAll(ctx)
	if snap.Err != nil || len(snap.Items) != 2 {
		t.Fatalf("first fetch: items=%d err=%v", len(snap.Items), snap.Err)
	}

	repo.listErr = errors.New("offline")
	snap = m.FetchAll(ctx)
	if snap.Err == nil {
		t.Error("expected error to be recorded")
	}
	if len(snap.Items) != 2 {
		t.Errorf("items = %d after failed fetch, want previous 2", len(snap.Items))
	}

	repo.listErr = nil
	snap = m.FetchAll(ctx)
	if snap.Err != nil {
		t.Errorf("error not cleared after successful fetch: %v", snap.Err)
	}
}

func TestManager_MutationsRefetch(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{}
	m := NewManager[row](repo, tablestore.Query{})

	created, snap, err := m.Create(ctx, row{Name: "x"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if len(snap.Items) != 1 || snap.Items[0].ID != created.ID {
		t.Errorf("snapshot after create = %+v", snap.Items)
	}

	// A row written elsewhere shows up after the next mutation's re-fetch.
	repo.rows = append(repo.rows, row{ID: primitive.NewObjectID(), Name: "external"})

	_, snap, err = m.Update(ctx, created.ID, "y")
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if len(snap.Items) != 2 || snap.Items[0].Name != "y" {
		t.Errorf("snapshot after update = %+v", snap.Items)
	}

	snap, err = m.Delete(ctx, created.ID)
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(snap.Items) != 1 || snap.Items[0].Name != "external" {
		t.Errorf("snapshot after delete = %+v", snap.Items)
	}
	if repo.lists != 3 {
		t.Errorf("List called %d times, want 3", repo.lists)
	}
}

func TestManager_FailedWriteKeepsListAndSkipsRefetch(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{rows: []row{{ID: primitive.NewObjectID(), Name: "a"}}}
	m := NewManager[row](repo, tablestore.Query{})
	m.FetchAll(ctx)

	repo.writeErr = errors.New("denied")
	_, snap, err := m.Create(ctx, row{Name: "b"})
	if err == nil {
		t.Fatal("expected Create to fail")
	}
	if len(snap.Items) != 1 || snap.Err == nil {
		t.Errorf("snapshot after failed create = %+v", snap)
	}
	if repo.lists != 1 {
		t.Errorf("List called %d times, want 1", repo.lists)
	}
}

func TestSet_OneManagerPerParent(t *testing.T) {
	repo := &fakeRepo{}
	s := NewSet[row](repo, true)
	a, b := primitive.NewObjectID(), primitive.NewObjectID()

	if s.For(a) != s.For(a) {
		t.Error("For returned different managers for the same parent")
	}
	if s.For(a) == s.For(b) {
		t.Error("For returned the same manager for different parents")
	}
	if q := s.For(a).query; q.ParentID == nil || *q.ParentID != a || !q.ActiveOnly {
		t.Errorf("scope query = %+v", q)
	}
	if q := s.For(primitive.NilObjectID).query; q.ParentID != nil {
		t.Errorf("unscoped query has parent %v", q.ParentID)
	}
}

func TestSnapshot_View(t *testing.T) {
	v := Snapshot[row]{Err: errors.New("offline")}.View()
	if v.Items == nil {
		t.Error("View.Items must never be nil")
	}
	if v.Error != "offline" {
		t.Errorf("Error = %q", v.Error)
	}

	w := Snapshot[row]{Items: []row{{Name: "a"}}}.WithItem(row{Name: "a"})
	if w.Item == nil || w.Item.Name != "a" || w.Error != "" {
		t.Errorf("WithItem = %+v", w)
	}
}
