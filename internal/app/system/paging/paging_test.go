package paging

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		before       string
		after        string
		limit        string
		wantSize     int
		wantBackward bool
		wantPaged    bool
	}{
		{"first page", "", "", "", PageSize, false, false},
		{"after cursor", "", "abc", "", PageSize, false, true},
		{"before cursor", "abc", "", "", PageSize, true, true},
		{"before wins over after", "b", "a", "", PageSize, true, true},
		{"custom limit", "", "", "10", 10, false, false},
		{"limit capped", "", "", "5000", MaxPageSize, false, false},
		{"bad limit ignored", "", "", "x", PageSize, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := Parse(tt.before, tt.after, tt.limit)
			if k.Size != tt.wantSize {
				t.Errorf("Size = %d, want %d", k.Size, tt.wantSize)
			}
			if k.Backward != tt.wantBackward {
				t.Errorf("Backward = %v, want %v", k.Backward, tt.wantBackward)
			}
			if k.Paged != tt.wantPaged {
				t.Errorf("Paged = %v, want %v", k.Paged, tt.wantPaged)
			}
		})
	}
}

func TestTrim(t *testing.T) {
	k := Keyset{Size: 3}

	rows, p := Trim(k, []int{1, 2, 3, 4})
	if len(rows) != 3 || !p.HasNext || p.HasPrev {
		t.Errorf("forward with extra: rows=%v page=%+v", rows, p)
	}

	rows, p = Trim(k, []int{1, 2})
	if len(rows) != 2 || p.HasNext || p.HasPrev {
		t.Errorf("forward without extra: rows=%v page=%+v", rows, p)
	}

	k = Keyset{Size: 3, Backward: true, Paged: true}
	rows, p = Trim(k, []int{9, 8, 7, 6})
	if len(rows) != 3 || !p.HasPrev || !p.HasNext {
		t.Errorf("backward with extra: rows=%v page=%+v", rows, p)
	}
	if rows[0] != 7 || rows[2] != 9 {
		t.Errorf("backward rows not restored to display order: %v", rows)
	}
}

func TestWindow_NilWithoutCursor(t *testing.T) {
	if w := Parse("", "", "").Window("nome_ci"); w != nil {
		t.Errorf("Window() = %v, want nil", w)
	}
}

func TestWithCursors(t *testing.T) {
	type item struct {
		Key string
		ID  primitive.ObjectID
	}
	key := func(i item) string { return i.Key }
	id := func(i item) primitive.ObjectID { return i.ID }

	p := WithCursors(Page{}, []item{}, key, id)
	if p.PrevCursor != "" || p.NextCursor != "" {
		t.Errorf("empty rows produced cursors: %+v", p)
	}

	rows := []item{{"ana", primitive.NewObjectID()}, {"rui", primitive.NewObjectID()}}
	p = WithCursors(Page{}, rows, key, id)
	if p.PrevCursor == "" || p.NextCursor == "" || p.PrevCursor == p.NextCursor {
		t.Errorf("unexpected cursors: %+v", p)
	}

	k := Parse("", p.NextCursor, "")
	if k.Cursor == nil {
		t.Fatal("encoded cursor did not decode")
	}
	if k.Cursor.ID != rows[1].ID {
		t.Errorf("cursor id = %v, want %v", k.Cursor.ID, rows[1].ID)
	}
}
