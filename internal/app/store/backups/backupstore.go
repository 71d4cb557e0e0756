// internal/app/store/backups/backupstore.go
package backupstore

import (
	"context"

	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Backups records every export run.
var Backups = tablestore.Table{Name: "backups", OrderField: "created_at"}

type Store struct {
	*tablestore.Store[models.Backup]
}

func New(db *mongo.Database) *Store {
	return &Store{tablestore.New[models.Backup](db, Backups)}
}

// Recent returns up to limit backups, newest first. limit <= 0 means all.
func (s *Store) Recent(ctx context.Context, limit int64) ([]models.Backup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return s.Find(ctx, bson.M{}, opts)
}

// Record inserts the outcome of one export run.
func (s *Store) Record(ctx context.Context, b models.Backup) (models.Backup, error) {
	b.ID = primitive.NilObjectID
	if b.Collections == nil {
		b.Collections = []string{}
	}
	return s.Create(ctx, b)
}
