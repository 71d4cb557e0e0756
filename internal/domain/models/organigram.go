package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrganigramMember is a person on the municipal organizational chart.
//
// SuperiorID points at another member. A member may not be its own superior,
// but longer cycles (A -> B -> A) are not checked.
type OrganigramMember struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name        string              `bson:"nome" json:"nome"`
	Role        string              `bson:"cargo" json:"cargo"`
	Department  string              `bson:"departamento" json:"departamento"`
	SuperiorID  *primitive.ObjectID `bson:"superior_id" json:"superior_id"`
	Email       string              `bson:"email,omitempty" json:"email,omitempty"`
	Phone       string              `bson:"telefone,omitempty" json:"telefone,omitempty"`
	Description string              `bson:"descricao,omitempty" json:"descricao,omitempty"`
	PhotoURL    string              `bson:"foto_url,omitempty" json:"foto_url,omitempty"`
	PhotoKey    string              `bson:"foto_chave,omitempty" json:"-"` // object key behind PhotoURL
	Order       int                 `bson:"ordem" json:"ordem"`
	Active      bool                `bson:"ativo" json:"ativo"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at" json:"updated_at"`
}

// Department is an entry of the department list organigram members pick from.
type Department struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"nome" json:"nome"`
	Description string             `bson:"descricao,omitempty" json:"descricao,omitempty"`
	Order       int                `bson:"ordem" json:"ordem"`
	Active      bool               `bson:"ativo" json:"ativo"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}

// DefaultDepartments seeds the departamentos collection on first start.
var DefaultDepartments = []string{
	"Presidência",
	"Gabinete do Presidente",
	"Administração e Finanças",
	"Planeamento e Desenvolvimento",
	"Obras Públicas e Urbanismo",
	"Educação e Cultura",
	"Saúde e Ação Social",
	"Agricultura e Pescas",
	"Ambiente e Saneamento",
	"Juventude e Desporto",
}
