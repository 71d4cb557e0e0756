// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// PageSize is the default number of rows in a back-office list page.
	PageSize = 50
	// MaxPageSize caps the "limit" query parameter.
	MaxPageSize = 200
)

// Keyset describes one keyset-paginated read taken from the request's
// "after", "before" and "limit" parameters.
type Keyset struct {
	Size     int
	Backward bool
	Paged    bool // a cursor was supplied
	Cursor   *wafflemongo.Cursor
}

// Page reports whether neighbouring pages exist.
type Page struct {
	HasPrev    bool   `json:"has_prev"`
	HasNext    bool   `json:"has_next"`
	PrevCursor string `json:"prev_cursor,omitempty"`
	NextCursor string `json:"next_cursor,omitempty"`
}

// FromRequest reads the keyset parameters. "before" wins over "after".
func FromRequest(r *http.Request) Keyset {
	return Parse(query.Get(r, "before"), query.Get(r, "after"), query.Get(r, "limit"))
}

// Parse builds a Keyset from raw parameter values. Undecodable cursors are
// treated as absent.
func Parse(before, after, limit string) Keyset {
	k := Keyset{Size: PageSize}
	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		k.Size = min(n, MaxPageSize)
	}
	raw := after
	if before != "" {
		k.Backward = true
		raw = before
	}
	if raw != "" {
		k.Paged = true
		if c, ok := wafflemongo.DecodeCursor(raw); ok {
			k.Cursor = &c
		}
	}
	return k
}

// FindOptions sorts by sortField then _id in the paging direction and asks
// for one row more than the page size.
func (k Keyset) FindOptions(sortField string) *options.FindOptions {
	order := 1
	if k.Backward {
		order = -1
	}
	return options.Find().
		SetSort(bson.D{{Key: sortField, Value: order}, {Key: "_id", Value: order}}).
		SetLimit(int64(k.Size + 1))
}

// Window returns the cursor condition to merge into the filter, or nil.
func (k Keyset) Window(sortField string) bson.M {
	if k.Cursor == nil {
		return nil
	}
	dir := "gt"
	if k.Backward {
		dir = "lt"
	}
	return wafflemongo.KeysetWindow(sortField, dir, k.Cursor.CI, k.Cursor.ID)
}

// Trim drops the look-ahead row and restores display order for backward
// reads.
func Trim[T any](k Keyset, rows []T) ([]T, Page) {
	var p Page
	extra := len(rows) > k.Size
	if k.Backward {
		if extra {
			rows = rows[:k.Size]
			p.HasPrev = true
		}
		p.HasNext = true
		Reverse(rows)
	} else {
		if extra {
			rows = rows[:k.Size]
			p.HasNext = true
		}
		p.HasPrev = k.Paged
	}
	return rows, p
}

// Reverse reverses rows in place.
func Reverse[T any](rows []T) {
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
}

// WithCursors fills the prev/next cursors from the first and last rows.
func WithCursors[T any](p Page, rows []T, keyFn func(T) string, idFn func(T) primitive.ObjectID) Page {
	if len(rows) == 0 {
		return p
	}
	first, last := rows[0], rows[len(rows)-1]
	p.PrevCursor = wafflemongo.EncodeCursor(keyFn(first), idFn(first))
	p.NextCursor = wafflemongo.EncodeCursor(keyFn(last), idFn(last))
	return p
}
