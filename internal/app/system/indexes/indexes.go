// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called from EnsureSchema. Each collection set is idempotent.
Errors are aggregated so every problem is visible and startup fails fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	for _, set := range collectionSets() {
		if err := ensureIndexSet(ctx, db.Collection(set.collection), set.models); err != nil {
			problems = append(problems, set.collection+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

type indexSet struct {
	collection string
	models     []mongo.IndexModel
}

// Child collections of a sector are always read by setor_id ordered by ordem.
func sectorChild(collection, short string) indexSet {
	return indexSet{collection, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "setor_id", Value: 1}, {Key: "ordem", Value: 1}, {Key: "_id", Value: 1}},
			Options: options.Index().SetName("idx_" + short + "_setor_ordem_id"),
		},
	}}
}

func collectionSets() []indexSet {
	return []indexSet{
		{"setores", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_setores_slug"),
			},
			{
				Keys:    bson.D{{Key: "ativo", Value: 1}, {Key: "ordem", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_setores_ativo_ordem_id"),
			},
		}},
		sectorChild("setores_estatisticas", "estatisticas"),
		sectorChild("setores_programas", "programas"),
		sectorChild("setores_oportunidades", "oportunidades"),
		sectorChild("setores_infraestruturas", "infraestruturas"),
		sectorChild("setores_contactos", "contactos"),
		{"populacao_historico", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "ano", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_populacao_ano"),
			},
		}},
		{"organigrama", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "ordem", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_organigrama_ordem_id"),
			},
			{
				Keys:    bson.D{{Key: "superior_id", Value: 1}},
				Options: options.Index().SetName("idx_organigrama_superior"),
			},
		}},
		{"departamentos", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "nome", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_departamentos_nome"),
			},
		}},
		{"utilizadores", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_utilizadores_email"),
			},
			{
				Keys:    bson.D{{Key: "role", Value: 1}, {Key: "status", Value: 1}, {Key: "nome_ci", Value: 1}, {Key: "_id", Value: 1}},
				Options: options.Index().SetName("idx_utilizadores_role_status_nomeci_id"),
			},
		}},
		{"solicitacoes", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "setor_id", Value: 1}, {Key: "estado", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_solicitacoes_setor_estado_created"),
			},
		}},
		{"backups", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "created_at", Value: -1}},
				Options: options.Index().SetName("idx_backups_created"),
			},
		}},
		{"auditoria", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_auditoria_timestamp"),
			},
			{
				Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_auditoria_user_timestamp"),
			},
			{
				Keys:    bson.D{{Key: "category", Value: 1}, {Key: "event_type", Value: 1}, {Key: "timestamp", Value: -1}},
				Options: options.Index().SetName("idx_auditoria_category_type_timestamp"),
			},
		}},
	}
}

/* -------------------------------------------------------------------------- */
/* Reconcile a set of desired indexes for one collection                      */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func isUnique(b *bool) bool { return b != nil && *b }

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	existing := map[string]existingIndex{} // sig -> index
	for cur.Next(ctx) {
		var idx existingIndex
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		existing[keySig(idx.Key)] = idx
	}
	return existing, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	var errs []string

	existing, err := listExisting(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes to reconcile.
		existing = map[string]existingIndex{}
	}

	for _, m := range models {
		opts := m.Options
		desiredName := ""
		if opts != nil && opts.Name != nil {
			desiredName = *opts.Name
		}
		var desiredUnique *bool
		if opts != nil {
			desiredUnique = opts.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if isUnique(desiredUnique) == isUnique(ex.Unique) && (desiredName == "" || ex.Name == desiredName) {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", sig))
				continue
			}
			// Name or uniqueness differs: drop and recreate below.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop failed: %v", coll.Name(), desiredName, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if wafflemongo.IsDup(err) && isUnique(desiredUnique) {
				errs = append(errs, fmt.Sprintf("%s(%s): cannot create unique index (duplicates present on %s)", coll.Name(), desiredName, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), desiredName, err))
			}
			zap.L().Warn("index ensure failed",
				zap.String("collection", coll.Name()),
				zap.String("name", desiredName),
				zap.String("keys", sig),
				zap.Error(err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", desiredName),
			zap.String("keys", sig),
			zap.Bool("unique", isUnique(desiredUnique)),
			zap.String("took", time.Since(start).String()))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
