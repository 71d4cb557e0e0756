// internal/app/store/sectors/sectorstore.go
package sectorstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/app/system/normalize"
	"github.com/dalemusser/municipio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrDuplicateSlug is returned when another sector already uses the slug.
var ErrDuplicateSlug = errors.New("a sector with this slug already exists")

// ErrEmptySlug is returned when a slug has no letters or digits left after
// normalization.
var ErrEmptySlug = errors.New("sector slug is empty")

// Sectors is the sector table. Sectors have no parent.
var Sectors = tablestore.Table{Name: "setores", OrderField: "ordem", ActiveField: "ativo"}

// Store reads and writes sectors.
type Store struct {
	*tablestore.Store[models.Sector]
	db *mongo.Database
}

func New(db *mongo.Database) *Store {
	return &Store{Store: tablestore.New[models.Sector](db, Sectors), db: db}
}

// ListActive returns the active sectors in display order.
func (s *Store) ListActive(ctx context.Context) ([]models.Sector, error) {
	return s.List(ctx, tablestore.Query{ActiveOnly: true})
}

// GetBySlug returns the sector with slug regardless of its active flag.
func (s *Store) GetBySlug(ctx context.Context, slug string) (models.Sector, error) {
	return s.FindOne(ctx, bson.M{"slug": normalize.Slug(slug)})
}

// GetActiveBySlug returns the active sector with slug, or
// tablestore.ErrNotFound.
func (s *Store) GetActiveBySlug(ctx context.Context, slug string) (models.Sector, error) {
	return s.FindOne(ctx, bson.M{"slug": normalize.Slug(slug), "ativo": true})
}

// Create stores a new sector, deriving the slug from the name when empty.
func (s *Store) Create(ctx context.Context, sec models.Sector) (models.Sector, error) {
	if sec.Slug == "" {
		sec.Slug = sec.Name
	}
	sec.Slug = normalize.Slug(sec.Slug)
	if sec.Slug == "" {
		return models.Sector{}, ErrEmptySlug
	}
	created, err := s.Store.Create(ctx, sec)
	if errors.Is(err, tablestore.ErrDuplicate) {
		return models.Sector{}, ErrDuplicateSlug
	}
	return created, err
}

// Update applies patch. A "slug" key in patch is normalized and must not
// normalize to empty.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, patch bson.M) (models.Sector, error) {
	if v, ok := patch["slug"].(string); ok {
		slug := normalize.Slug(v)
		if slug == "" {
			return models.Sector{}, ErrEmptySlug
		}
		patch["slug"] = slug
	}
	updated, err := s.Store.Update(ctx, id, patch)
	if errors.Is(err, tablestore.ErrDuplicate) {
		return models.Sector{}, ErrDuplicateSlug
	}
	return updated, err
}

// Delete removes the sector and every child row that references it.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	for _, t := range ChildTables {
		if _, err := s.db.Collection(t.Name).DeleteMany(ctx, bson.M{t.ParentField: id}); err != nil {
			return fmt.Errorf("delete %s of sector %s: %w", t.Name, id.Hex(), err)
		}
	}
	return nil
}

// Slugs returns every sector slug, used to validate sector roles.
func (s *Store) Slugs(ctx context.Context) (map[string]bool, error) {
	rows, err := s.List(ctx, tablestore.Query{})
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(rows))
	for _, r := range rows {
		out[r.Slug] = true
	}
	return out, nil
}
