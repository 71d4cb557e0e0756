// internal/domain/models/sitesettings.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SiteSettings is the single portal settings document edited by admins.
type SiteSettings struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`

	SiteName     string `bson:"nome_site" json:"nome_site"`
	ContactEmail string `bson:"email_contacto,omitempty" json:"email_contacto,omitempty"`
	ContactPhone string `bson:"telefone_contacto,omitempty" json:"telefone_contacto,omitempty"`
	Address      string `bson:"endereco,omitempty" json:"endereco,omitempty"`
	FooterHTML   string `bson:"rodape_html,omitempty" json:"rodape_html,omitempty"`
	Maintenance  bool   `bson:"modo_manutencao" json:"modo_manutencao"`

	// Demographics mirrors the most recent population record.
	Demographics *Demographics `bson:"demografia,omitempty" json:"demografia,omitempty"`

	UpdatedAt     *time.Time          `bson:"updated_at,omitempty" json:"updated_at,omitempty"`
	UpdatedByID   *primitive.ObjectID `bson:"updated_by_id,omitempty" json:"updated_by_id,omitempty"`
	UpdatedByName string              `bson:"updated_by_name,omitempty" json:"updated_by_name,omitempty"`
}

// Demographics is the headline population summary shown across the portal.
type Demographics struct {
	Year       int     `bson:"ano" json:"ano"`
	Population int64   `bson:"populacao_total" json:"populacao_total"`
	GrowthRate float64 `bson:"taxa_crescimento" json:"taxa_crescimento"`
	Density    float64 `bson:"densidade_populacional" json:"densidade_populacional"`
}

// DefaultSiteName is used when no settings document exists.
const DefaultSiteName = "Portal Municipal"
