// internal/app/store/organigram/organigramstore.go
package organigramstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dalemusser/municipio/internal/app/store/tablestore"
	"github.com/dalemusser/municipio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	// ErrSelfSuperior is returned when a member is set as its own superior.
	ErrSelfSuperior = errors.New("a member cannot be their own superior")
	// ErrUnknownSuperior is returned when superior_id names no member.
	ErrUnknownSuperior = errors.New("the selected superior does not exist")
)

// Members is the organigram table.
var Members = tablestore.Table{Name: "organigrama", OrderField: "ordem", ActiveField: "ativo"}

// Store reads and writes organigram members. Only direct self-reference is
// rejected; longer superior cycles are stored as given.
type Store struct {
	*tablestore.Store[models.OrganigramMember]
}

func New(db *mongo.Database) *Store {
	return &Store{tablestore.New[models.OrganigramMember](db, Members)}
}

// SuperiorOptions returns the members that may be chosen as superior of the
// member being edited: everyone except that member. editingID is the zero
// ObjectID when creating.
func SuperiorOptions(members []models.OrganigramMember, editingID primitive.ObjectID) []models.OrganigramMember {
	out := make([]models.OrganigramMember, 0, len(members))
	for _, m := range members {
		if !editingID.IsZero() && m.ID == editingID {
			continue
		}
		out = append(out, m)
	}
	return out
}

// Create stores m after checking its superior exists.
func (s *Store) Create(ctx context.Context, m models.OrganigramMember) (models.OrganigramMember, error) {
	if !m.ID.IsZero() && m.SuperiorID != nil && *m.SuperiorID == m.ID {
		return models.OrganigramMember{}, ErrSelfSuperior
	}
	if err := s.checkSuperior(ctx, m.SuperiorID); err != nil {
		return models.OrganigramMember{}, err
	}
	return s.Store.Create(ctx, m)
}

// Update applies patch to member id. A "superior_id" key in patch must be
// nil or name another existing member.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, patch bson.M) (models.OrganigramMember, error) {
	if raw, ok := patch["superior_id"]; ok {
		sup, err := superiorFrom(raw)
		if err != nil {
			return models.OrganigramMember{}, err
		}
		if sup != nil && *sup == id {
			return models.OrganigramMember{}, ErrSelfSuperior
		}
		if err := s.checkSuperior(ctx, sup); err != nil {
			return models.OrganigramMember{}, err
		}
		if sup == nil {
			patch["superior_id"] = nil
		} else {
			patch["superior_id"] = *sup
		}
	}
	return s.Store.Update(ctx, id, patch)
}

// SetPhoto records the object key and public URL of a member's photo.
func (s *Store) SetPhoto(ctx context.Context, id primitive.ObjectID, url, key string) (models.OrganigramMember, error) {
	return s.Store.Update(ctx, id, bson.M{"foto_url": url, "foto_chave": key})
}

// Delete removes member id and detaches its direct subordinates.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.Store.Delete(ctx, id); err != nil {
		return err
	}
	_, err := s.Collection().UpdateMany(ctx,
		bson.M{"superior_id": id},
		bson.M{"$set": bson.M{"superior_id": nil}},
	)
	if err != nil {
		return fmt.Errorf("detach subordinates of %s: %w", id.Hex(), err)
	}
	return nil
}

func (s *Store) checkSuperior(ctx context.Context, sup *primitive.ObjectID) error {
	if sup == nil {
		return nil
	}
	if _, err := s.Get(ctx, *sup); err != nil {
		if errors.Is(err, tablestore.ErrNotFound) {
			return ErrUnknownSuperior
		}
		return err
	}
	return nil
}

func superiorFrom(raw any) (*primitive.ObjectID, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case primitive.ObjectID:
		if v.IsZero() {
			return nil, nil
		}
		return &v, nil
	case *primitive.ObjectID:
		if v == nil || v.IsZero() {
			return nil, nil
		}
		return v, nil
	default:
		return nil, fmt.Errorf("superior_id has unexpected type %T", raw)
	}
}
