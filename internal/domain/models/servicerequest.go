package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Kinds of citizen submissions made from a sector page.
const (
	RequestApplication = "candidatura" // opportunity application form
	RequestEnrollment  = "inscricao"   // program enrollment form
)

// Request states.
const (
	RequestPending   = "pendente"
	RequestReviewing = "em_analise"
	RequestApproved  = "aprovada"
	RequestRejected  = "rejeitada"
)

// RequestStates lists every valid state.
var RequestStates = []string{RequestPending, RequestReviewing, RequestApproved, RequestRejected}

// ServiceRequest is an application or enrollment submitted by a citizen.
type ServiceRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SectorID    primitive.ObjectID `bson:"setor_id" json:"setor_id"`
	Kind        string             `bson:"tipo" json:"tipo"`
	ReferenceID primitive.ObjectID `bson:"referencia_id" json:"referencia_id"`
	Name        string             `bson:"nome" json:"nome"`
	Email       string             `bson:"email" json:"email"`
	Phone       string             `bson:"telefone,omitempty" json:"telefone,omitempty"`
	Message     string             `bson:"mensagem,omitempty" json:"mensagem,omitempty"`
	State       string             `bson:"estado" json:"estado"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
