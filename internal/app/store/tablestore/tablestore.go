// internal/app/store/tablestore/tablestore.go

// Package tablestore is the generic repository over one portal collection:
// list rows (optionally by parent id and active flag) ordered by their order
// field, fetch one, create, partially update and delete. Every per-entity
// store in the portal is an instance of Store[T] plus its own extras.
package tablestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/municipio/internal/app/system/metrics"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound  = errors.New("row not found")
	ErrDuplicate = errors.New("a row with the same unique value already exists")
)

// Table describes the collection a Store reads and writes.
type Table struct {
	Name        string // collection name
	ParentField string // foreign key used by Query.ParentID, e.g. "setor_id"
	OrderField  string // ascending sort key, e.g. "ordem" or "ano"
	ActiveField string // boolean visibility flag; empty when the table has none
}

// Query narrows List. The zero value lists every row.
type Query struct {
	ParentID   *primitive.ObjectID
	ActiveOnly bool
}

// Store is a repository of T rows in one collection.
type Store[T any] struct {
	c     *mongo.Collection
	table Table
}

// New returns a Store for table in db.
func New[T any](db *mongo.Database, table Table) *Store[T] {
	return &Store[T]{c: db.Collection(table.Name), table: table}
}

// Table returns the table description.
func (s *Store[T]) Table() Table { return s.table }

// Collection exposes the underlying collection for entity-specific queries.
func (s *Store[T]) Collection() *mongo.Collection { return s.c }

// Filter builds the Mongo filter for q.
func (s *Store[T]) Filter(q Query) bson.M {
	filter := bson.M{}
	if q.ParentID != nil && s.table.ParentField != "" {
		filter[s.table.ParentField] = *q.ParentID
	}
	if q.ActiveOnly && s.table.ActiveField != "" {
		filter[s.table.ActiveField] = true
	}
	return filter
}

// List returns the rows matching q ordered by the order field, ties broken by
// _id. The slice is never nil on success.
func (s *Store[T]) List(ctx context.Context, q Query) ([]T, error) {
	opts := options.Find()
	if s.table.OrderField != "" {
		opts.SetSort(bson.D{{Key: s.table.OrderField, Value: 1}, {Key: "_id", Value: 1}})
	} else {
		opts.SetSort(bson.D{{Key: "_id", Value: 1}})
	}
	return s.Find(ctx, s.Filter(q), opts)
}

// Find runs an arbitrary filter. The slice is never nil on success.
func (s *Store[T]) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: find: %w", s.table.Name, err)
	}
	defer cur.Close(ctx)

	rows := make([]T, 0)
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("%s: decode: %w", s.table.Name, err)
	}
	return rows, nil
}

// FindOne returns the first row matching filter.
func (s *Store[T]) FindOne(ctx context.Context, filter bson.M) (T, error) {
	var row T
	err := s.c.FindOne(ctx, filter).Decode(&row)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return row, ErrNotFound
	}
	if err != nil {
		return row, fmt.Errorf("%s: find one: %w", s.table.Name, err)
	}
	return row, nil
}

// Get returns the row with id.
func (s *Store[T]) Get(ctx context.Context, id primitive.ObjectID) (T, error) {
	return s.FindOne(ctx, bson.M{"_id": id})
}

// Count returns the number of rows matching q.
func (s *Store[T]) Count(ctx context.Context, q Query) (int64, error) {
	return s.c.CountDocuments(ctx, s.Filter(q))
}

// Create inserts row and returns it as stored, with its generated id and
// timestamps. row may be a T, a *T or a bson.M.
func (s *Store[T]) Create(ctx context.Context, row any) (T, error) {
	var zero T
	doc, err := toM(row)
	if err != nil {
		return zero, fmt.Errorf("%s: encode: %w", s.table.Name, err)
	}

	id, ok := doc["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		id = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	doc["_id"] = id
	doc["created_at"] = now
	doc["updated_at"] = now

	_, err = s.c.InsertOne(ctx, doc)
	metrics.Mutations.WithLabelValues(s.table.Name, "create", metrics.Result(err)).Inc()
	if err != nil {
		if wafflemongo.IsDup(err) {
			return zero, ErrDuplicate
		}
		return zero, fmt.Errorf("%s: insert: %w", s.table.Name, err)
	}
	return s.Get(ctx, id)
}

// Update applies patch as a $set on the row with id and returns the updated
// row. Fields absent from patch are left untouched; _id and created_at are
// never overwritten.
func (s *Store[T]) Update(ctx context.Context, id primitive.ObjectID, patch any) (T, error) {
	var zero T
	set, err := toM(patch)
	if err != nil {
		return zero, fmt.Errorf("%s: encode: %w", s.table.Name, err)
	}
	delete(set, "_id")
	delete(set, "created_at")
	set["updated_at"] = time.Now().UTC()

	var out T
	err = s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&out)
	metrics.Mutations.WithLabelValues(s.table.Name, "update", metrics.Result(err)).Inc()
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return zero, ErrNotFound
	case err != nil && wafflemongo.IsDup(err):
		return zero, ErrDuplicate
	case err != nil:
		return zero, fmt.Errorf("%s: update: %w", s.table.Name, err)
	}
	return out, nil
}

// Delete removes the row with id.
func (s *Store[T]) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	metrics.Mutations.WithLabelValues(s.table.Name, "delete", metrics.Result(err)).Inc()
	if err != nil {
		return fmt.Errorf("%s: delete: %w", s.table.Name, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteMany removes every row matching q and returns how many went.
func (s *Store[T]) DeleteMany(ctx context.Context, q Query) (int64, error) {
	res, err := s.c.DeleteMany(ctx, s.Filter(q))
	metrics.Mutations.WithLabelValues(s.table.Name, "delete", metrics.Result(err)).Inc()
	if err != nil {
		return 0, fmt.Errorf("%s: delete many: %w", s.table.Name, err)
	}
	return res.DeletedCount, nil
}

func toM(v any) (bson.M, error) {
	if m, ok := v.(bson.M); ok {
		out := make(bson.M, len(m))
		for k, val := range m {
			out[k] = val
		}
		return out, nil
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m bson.M
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
