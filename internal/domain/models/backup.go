package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Backup origins and states.
const (
	BackupManual    = "manual"
	BackupScheduled = "agendado"

	BackupCompleted = "concluido"
	BackupFailed    = "falhou"
)

// Backup records one export of the portal collections to the object store.
type Backup struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FileName    string             `bson:"ficheiro" json:"ficheiro"`
	Key         string             `bson:"chave" json:"chave"`
	Size        int64              `bson:"tamanho" json:"tamanho"`
	Collections []string           `bson:"colecoes" json:"colecoes"`
	Documents   int64              `bson:"documentos" json:"documentos"`
	Origin      string             `bson:"origem" json:"origem"`
	State       string             `bson:"estado" json:"estado"`
	Error       string             `bson:"erro,omitempty" json:"erro,omitempty"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updated_at"`
}
