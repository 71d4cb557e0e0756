// internal/domain/models/sector.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Sector is a municipal strategic domain (Agricultura, Educação, ...) with its
// own public page.
type Sector struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Slug        string             `bson:"slug" json:"slug"`
	Name        string             `bson:"nome" json:"nome"`
	Description string             `bson:"descricao" json:"descricao"`
	Vision      string             `bson:"visao" json:"visao"`
	Mission     string             `bson:"missao" json:"missao"`
	Color       string             `bson:"cor" json:"cor"`
	Icon        string             `bson:"icone" json:"icone"`
	Order       int                `bson:"ordem" json:"ordem"`
	Active      bool               `bson:"ativo" json:"ativo"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// SectorStatistic is a headline figure shown on a sector page.
type SectorStatistic struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SectorID  primitive.ObjectID `bson:"setor_id" json:"setor_id"`
	Title     string             `bson:"titulo" json:"titulo"`
	Value     string             `bson:"valor" json:"valor"`
	Unit      string             `bson:"unidade,omitempty" json:"unidade,omitempty"`
	Icon      string             `bson:"icone,omitempty" json:"icone,omitempty"`
	Order     int                `bson:"ordem" json:"ordem"`
	Active    bool               `bson:"ativo" json:"ativo"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Program is a municipal program citizens can enroll in.
type Program struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SectorID     primitive.ObjectID `bson:"setor_id" json:"setor_id"`
	Title        string             `bson:"titulo" json:"titulo"`
	Description  string             `bson:"descricao" json:"descricao"`
	Audience     string             `bson:"publico_alvo,omitempty" json:"publico_alvo,omitempty"`
	Duration     string             `bson:"duracao,omitempty" json:"duracao,omitempty"`
	Benefits     StringList         `bson:"beneficios" json:"beneficios"`
	Requirements StringList         `bson:"requisitos" json:"requisitos"`
	Order        int                `bson:"ordem" json:"ordem"`
	Active       bool               `bson:"ativo" json:"ativo"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// Opportunity is an investment or partnership opportunity open to applications.
type Opportunity struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SectorID     primitive.ObjectID `bson:"setor_id" json:"setor_id"`
	Title        string             `bson:"titulo" json:"titulo"`
	Description  string             `bson:"descricao" json:"descricao"`
	Kind         string             `bson:"tipo,omitempty" json:"tipo,omitempty"`
	Investment   string             `bson:"investimento,omitempty" json:"investimento,omitempty"`
	Deadline     string             `bson:"prazo,omitempty" json:"prazo,omitempty"`
	Benefits     StringList         `bson:"beneficios" json:"beneficios"`
	Requirements StringList         `bson:"requisitos" json:"requisitos"`
	Order        int                `bson:"ordem" json:"ordem"`
	Active       bool               `bson:"ativo" json:"ativo"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// Infrastructure is a facility listed under a sector.
type Infrastructure struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SectorID  primitive.ObjectID `bson:"setor_id" json:"setor_id"`
	Name      string             `bson:"nome" json:"nome"`
	Kind      string             `bson:"tipo,omitempty" json:"tipo,omitempty"`
	Location  string             `bson:"localizacao,omitempty" json:"localizacao,omitempty"`
	Capacity  string             `bson:"capacidade,omitempty" json:"capacidade,omitempty"`
	State     string             `bson:"estado,omitempty" json:"estado,omitempty"`
	Features  StringList         `bson:"caracteristicas" json:"caracteristicas"`
	Order     int                `bson:"ordem" json:"ordem"`
	Active    bool               `bson:"ativo" json:"ativo"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// Contact is a sector contact point. Contacts have no active flag.
type Contact struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SectorID    primitive.ObjectID `bson:"setor_id" json:"setor_id"`
	Responsible string             `bson:"responsavel,omitempty" json:"responsavel,omitempty"`
	Address     string             `bson:"endereco,omitempty" json:"endereco,omitempty"`
	Phone       string             `bson:"telefone,omitempty" json:"telefone,omitempty"`
	Email       string             `bson:"email,omitempty" json:"email,omitempty"`
	Hours       string             `bson:"horario,omitempty" json:"horario,omitempty"`
	Order       int                `bson:"ordem" json:"ordem"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// SectorComplete is a read-only composite built per page view. It is never
// persisted as one document. All five collections are non-nil.
type SectorComplete struct {
	Sector
	Statistics      []SectorStatistic `json:"estatisticas"`
	Programs        []Program         `json:"programas"`
	Opportunities   []Opportunity     `json:"oportunidades"`
	Infrastructures []Infrastructure  `json:"infraestruturas"`
	Contacts        []Contact         `json:"contactos"`
}
