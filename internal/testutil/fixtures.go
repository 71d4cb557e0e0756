package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, collection string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert into %s: %v", collection, err)
	}
}

// CreateSector creates an active sector with the given slug and name.
func (f *Fixtures) CreateSector(ctx context.Context, slug, name string, order int) models.Sector {
	f.t.Helper()
	now := time.Now().UTC()
	sec := models.Sector{
		ID:        primitive.NewObjectID(),
		Slug:      slug,
		Name:      name,
		Color:     "green",
		Icon:      "wheat",
		Order:     order,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "setores", sec)
	return sec
}

// CreateProgram creates a program under sectorID.
func (f *Fixtures) CreateProgram(ctx context.Context, sectorID primitive.ObjectID, title string, active bool) models.Program {
	f.t.Helper()
	now := time.Now().UTC()
	p := models.Program{
		ID:           primitive.NewObjectID(),
		SectorID:     sectorID,
		Title:        title,
		Benefits:     models.StringList{},
		Requirements: models.StringList{},
		Active:       active,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "setores_programas", p)
	return p
}

// CreateOpportunity creates an active opportunity under sectorID.
func (f *Fixtures) CreateOpportunity(ctx context.Context, sectorID primitive.ObjectID, title string) models.Opportunity {
	f.t.Helper()
	now := time.Now().UTC()
	o := models.Opportunity{
		ID:           primitive.NewObjectID(),
		SectorID:     sectorID,
		Title:        title,
		Benefits:     models.StringList{},
		Requirements: models.StringList{},
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "setores_oportunidades", o)
	return o
}

// CreateContact creates a contact under sectorID.
func (f *Fixtures) CreateContact(ctx context.Context, sectorID primitive.ObjectID, email string) models.Contact {
	f.t.Helper()
	now := time.Now().UTC()
	c := models.Contact{
		ID:        primitive.NewObjectID(),
		SectorID:  sectorID,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "setores_contactos", c)
	return c
}

// CreateUser creates an active user. The password is hashed with the minimum
// bcrypt cost to keep tests fast.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role, password string) models.User {
	f.t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("failed to hash password: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		Role:         role,
		Status:       "active",
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "utilizadores", u)
	return u
}

// CreateMember creates an active organigram member.
func (f *Fixtures) CreateMember(ctx context.Context, name, department string, superior *primitive.ObjectID) models.OrganigramMember {
	f.t.Helper()
	now := time.Now().UTC()
	m := models.OrganigramMember{
		ID:         primitive.NewObjectID(),
		Name:       name,
		Role:       "Técnico",
		Department: department,
		SuperiorID: superior,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "organigrama", m)
	return m
}

// CreatePopulation creates a population record with no derived fields.
func (f *Fixtures) CreatePopulation(ctx context.Context, year int, population int64) models.PopulationRecord {
	f.t.Helper()
	now := time.Now().UTC()
	rec := models.PopulationRecord{
		ID:         primitive.NewObjectID(),
		Year:       year,
		Population: population,
		Source:     models.SourceCensus,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert(ctx, "populacao_historico", rec)
	return rec
}

// CreateRequest creates a service request for the sector in the given state.
func (f *Fixtures) CreateRequest(ctx context.Context, sectorID primitive.ObjectID, kind, state string) models.ServiceRequest {
	f.t.Helper()
	now := time.Now().UTC()
	req := models.ServiceRequest{
		ID:          primitive.NewObjectID(),
		SectorID:    sectorID,
		Kind:        kind,
		ReferenceID: primitive.NewObjectID(),
		Name:        "Maria Tavares",
		Email:       "maria@example.cv",
		State:       state,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.insert(ctx, "solicitacoes", req)
	return req
}
