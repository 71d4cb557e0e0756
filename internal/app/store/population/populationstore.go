// internal/app/store/population/populationstore.go
package populationstore

import (
	"context"
	"errors"

	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateYear is returned when a record for the year already exists.
var ErrDuplicateYear = errors.New("a population record for this year already exists")

// History is the population history table, ordered by year.
var History = tablestore.Table{Name: "populacao_historico", OrderField: "ano"}

// Store reads and writes population history records.
type Store struct {
	*tablestore.Store[models.PopulationRecord]
}

func New(db *mongo.Database) *Store {
	return &Store{tablestore.New[models.PopulationRecord](db, History)}
}

// All returns every record ordered by year ascending.
func (s *Store) All(ctx context.Context) ([]models.PopulationRecord, error) {
	return s.List(ctx, tablestore.Query{})
}

// GetByYear returns the record for year, or tablestore.ErrNotFound.
func (s *Store) GetByYear(ctx context.Context, year int) (models.PopulationRecord, error) {
	return s.FindOne(ctx, bson.M{"ano": year})
}

// Latest returns the record with the highest year.
func (s *Store) Latest(ctx context.Context) (models.PopulationRecord, error) {
	rows, err := s.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "ano", Value: -1}}).SetLimit(1))
	if err != nil {
		return models.PopulationRecord{}, err
	}
	if len(rows) == 0 {
		return models.PopulationRecord{}, tablestore.ErrNotFound
	}
	return rows[0], nil
}

// DupErr maps the generic duplicate error to ErrDuplicateYear.
func DupErr(err error) error {
	if errors.Is(err, tablestore.ErrDuplicate) {
		return ErrDuplicateYear
	}
	return err
}
