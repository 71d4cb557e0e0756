// internal/app/store/departments/departmentstore.go
package departmentstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/app/system/normalize"
	"github.com/dalemusser/municipio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateDepartment is returned when the name is already taken.
var ErrDuplicateDepartment = errors.New("a department with this name already exists")

// Departments is the department table.
var Departments = tablestore.Table{Name: "departamentos", OrderField: "ordem", ActiveField: "ativo"}

type Store struct {
	*tablestore.Store[models.Department]
}

func New(db *mongo.Database) *Store {
	return &Store{tablestore.New[models.Department](db, Departments)}
}

// Seed inserts each name that does not exist yet, in the given order.
// Existing rows are left untouched. Returns how many rows were added.
func (s *Store) Seed(ctx context.Context, names []string) (int, error) {
	added := 0
	now := time.Now().UTC()
	for i, name := range names {
		name = normalize.Name(name)
		if name == "" {
			continue
		}
		res, err := s.Collection().UpdateOne(ctx,
			bson.M{"nome": name},
			bson.M{"$setOnInsert": bson.M{
				"nome":       name,
				"ordem":      i + 1,
				"ativo":      true,
				"created_at": now,
				"updated_at": now,
			}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return added, err
		}
		if res.UpsertedCount > 0 {
			added++
		}
	}
	return added, nil
}

// ActiveNames returns the names of active departments in display order.
func (s *Store) ActiveNames(ctx context.Context) ([]string, error) {
	rows, err := s.List(ctx, tablestore.Query{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = r.Name
	}
	return names, nil
}

// IsActive reports whether name is an active department.
func (s *Store) IsActive(ctx context.Context, name string) (bool, error) {
	_, err := s.FindOne(ctx, bson.M{"nome": normalize.Name(name), "ativo": true})
	if errors.Is(err, tablestore.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// DupErr maps the generic duplicate error to ErrDuplicateDepartment.
func DupErr(err error) error {
	if errors.Is(err, tablestore.ErrDuplicate) {
		return ErrDuplicateDepartment
	}
	return err
}
