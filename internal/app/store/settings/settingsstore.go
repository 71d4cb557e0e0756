// internal/app/store/settings/settingsstore.go
package settingsstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/municipio/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store provides access to the configuracoes collection, which holds a single
// settings document for the whole portal.
type Store struct {
	c *mongo.Collection
}

// New creates a new settings store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("configuracoes")}
}

// Defaults are returned by Get before anything has been saved.
func Defaults() models.SiteSettings {
	return models.SiteSettings{SiteName: models.DefaultSiteName}
}

// Get returns the portal settings, or Defaults when none exist.
func (s *Store) Get(ctx context.Context) (models.SiteSettings, error) {
	var settings models.SiteSettings
	err := s.c.FindOne(ctx, bson.M{}).Decode(&settings)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return Defaults(), nil
	}
	if err != nil {
		return models.SiteSettings{}, err
	}
	if settings.SiteName == "" {
		settings.SiteName = models.DefaultSiteName
	}
	return settings, nil
}

// Save writes the editable settings. The demographic snapshot is owned by
// SetDemographics and is not touched here.
func (s *Store) Save(ctx context.Context, settings models.SiteSettings) (models.SiteSettings, error) {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"nome_site":         settings.SiteName,
			"email_contacto":    settings.ContactEmail,
			"telefone_contacto": settings.ContactPhone,
			"endereco":          settings.Address,
			"rodape_html":       settings.FooterHTML,
			"modo_manutencao":   settings.Maintenance,
			"updated_at":        now,
			"updated_by_id":     settings.UpdatedByID,
			"updated_by_name":   settings.UpdatedByName,
		},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}
	if _, err := s.c.UpdateOne(ctx, bson.M{}, update, options.Update().SetUpsert(true)); err != nil {
		return models.SiteSettings{}, err
	}
	return s.Get(ctx)
}

// SetDemographics replaces the headline population summary. A nil d clears
// it.
func (s *Store) SetDemographics(ctx context.Context, d *models.Demographics) error {
	var update bson.M
	if d == nil {
		update = bson.M{"$unset": bson.M{"demografia": ""}}
	} else {
		update = bson.M{
			"$set":         bson.M{"demografia": d},
			"$setOnInsert": bson.M{"_id": primitive.NewObjectID(), "nome_site": models.DefaultSiteName},
		}
	}
	_, err := s.c.UpdateOne(ctx, bson.M{}, update, options.Update().SetUpsert(true))
	return err
}
