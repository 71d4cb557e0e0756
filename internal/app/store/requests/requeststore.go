// internal/app/store/requests/requeststore.go
package requeststore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrBadState is returned for an estado outside models.RequestStates.
var ErrBadState = errors.New("unknown request state")

// Requests is the service request table, keyed by sector.
var Requests = tablestore.Table{Name: "solicitacoes", ParentField: "setor_id", OrderField: "created_at"}

// Filter narrows List. Zero values mean "any".
type Filter struct {
	SectorID primitive.ObjectID
	State    string
}

// Store holds citizen applications and enrollments.
type Store struct {
	*tablestore.Store[models.ServiceRequest]
}

func New(db *mongo.Database) *Store {
	return &Store{tablestore.New[models.ServiceRequest](db, Requests)}
}

// ValidState reports whether s is a known request state.
func ValidState(s string) bool {
	return slices.Contains(models.RequestStates, s)
}

// Create stores a new request in the pending state.
func (s *Store) Create(ctx context.Context, req models.ServiceRequest) (models.ServiceRequest, error) {
	if req.Kind != models.RequestApplication && req.Kind != models.RequestEnrollment {
		return models.ServiceRequest{}, fmt.Errorf("unknown request kind %q", req.Kind)
	}
	req.ID = primitive.NilObjectID
	req.State = models.RequestPending
	return s.Store.Create(ctx, req)
}

// List returns requests matching f, newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]models.ServiceRequest, error) {
	filter := bson.M{}
	if !f.SectorID.IsZero() {
		filter["setor_id"] = f.SectorID
	}
	if f.State != "" {
		filter["estado"] = f.State
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	return s.Find(ctx, filter, opts)
}

// SetState moves a request to state.
func (s *Store) SetState(ctx context.Context, id primitive.ObjectID, state string) (models.ServiceRequest, error) {
	if !ValidState(state) {
		return models.ServiceRequest{}, ErrBadState
	}
	return s.Update(ctx, id, bson.M{"estado": state, "updated_at": time.Now().UTC()})
}
