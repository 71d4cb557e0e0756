// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"
	"strings"

	backupstore "github.com/dalemusser/municipio/internal/app/store/backups"
	departmentstore "github.com/dalemusser/municipio/internal/app/store/departments"
	"github.com/dalemusser/municipio/internal/app/system/backup"
	"github.com/dalemusser/municipio/internal/app/system/indexes"
	"github.com/dalemusser/municipio/internal/app/system/timeouts"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB connects MongoDB and the object store.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().ApplyURI(appCfg.MongoURI)
	if appCfg.MongoMaxPoolSize > 0 {
		opts.SetMaxPoolSize(appCfg.MongoMaxPoolSize)
	}

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Medium())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("ping mongo: %w", err)
	}
	db := client.Database(appCfg.MongoDatabase)
	logger.Info("connected to MongoDB", zap.String("database", appCfg.MongoDatabase))

	objects, err := newStorage(ctx, appCfg)
	if err != nil {
		_ = client.Disconnect(context.Background())
		return DBDeps{}, fmt.Errorf("object store: %w", err)
	}
	logger.Info("object store ready", zap.String("type", appCfg.StorageType))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: db,
		Objects:       objects,
		Archives:      backup.NewExporter(db, objects, backupstore.New(db), appCfg.BackupPrefix, logger),
		Jobs:          &Jobs{},
	}, nil
}

// newStorage builds the object store backend named by storage_type. Local
// files are served under storage_local_url; S3 objects under the bucket URL
// unless storage_s3_public_url overrides it.
func newStorage(ctx context.Context, appCfg AppConfig) (storage.Store, error) {
	switch appCfg.StorageType {
	case "local":
		local, err := storage.NewLocal(storage.LocalConfig{
			BasePath: appCfg.StorageLocalPath,
			BaseURL:  "/" + strings.Trim(appCfg.StorageLocalURL, "/"),
		})
		if err != nil {
			return nil, err
		}
		return local, nil
	case "s3":
		s3, err := storage.NewS3(ctx, storage.S3Config{
			Bucket:          appCfg.StorageS3Bucket,
			Region:          appCfg.StorageS3Region,
			Prefix:          appCfg.StorageS3Prefix,
			BaseURL:         strings.TrimRight(appCfg.StorageS3PublicURL, "/"),
			AccessKeyID:     appCfg.StorageS3AccessKey,
			SecretAccessKey: appCfg.StorageS3SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return s3, nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", appCfg.StorageType)
	}
}

// EnsureSchema creates the collection indexes and seeds the department list.
// Both steps are idempotent.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("ensure indexes failed", zap.Error(err))
		return err
	}
	added, err := departmentstore.New(deps.MongoDatabase).Seed(ctx, models.DefaultDepartments)
	if err != nil {
		return fmt.Errorf("seed departments: %w", err)
	}
	if added > 0 {
		logger.Info("seeded departments", zap.Int("added", added))
	}
	return nil
}
