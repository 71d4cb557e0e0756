package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PopulationSource says where a population count came from.
type PopulationSource string

const (
	SourceCensus     PopulationSource = "censo"
	SourceEstimate   PopulationSource = "estimativa"
	SourceProjection PopulationSource = "projecao"
)

// PopulationSources lists the accepted sources in display order.
var PopulationSources = []PopulationSource{SourceCensus, SourceEstimate, SourceProjection}

// Valid reports whether s is one of the known sources.
func (s PopulationSource) Valid() bool {
	for _, v := range PopulationSources {
		if s == v {
			return true
		}
	}
	return false
}

// PopulationRecord is one year of municipal population history.
// GrowthRate and Density are derived at write time and stored; they are not
// recomputed when a neighbouring year changes.
type PopulationRecord struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Year       int                `bson:"ano" json:"ano"`
	Population int64              `bson:"populacao_total" json:"populacao_total"`
	Source     PopulationSource   `bson:"fonte" json:"fonte"`
	GrowthRate float64            `bson:"taxa_crescimento" json:"taxa_crescimento"`
	Density    float64            `bson:"densidade_populacional" json:"densidade_populacional"`
	Notes      string             `bson:"observacoes,omitempty" json:"observacoes,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
