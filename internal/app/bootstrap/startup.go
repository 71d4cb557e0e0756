// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	userstore "github.com/dalemusser/municipio/internal/app/store/users"
	"github.com/dalemusser/municipio/internal/app/system/timeouts"
	"github.com/dalemusser/municipio/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
	})

	if err := ensureAdmin(ctx, deps.MongoDatabase, appCfg.AdminEmail, appCfg.AdminPassword, logger); err != nil {
		return err
	}

	if appCfg.BackupSchedule != "" && deps.Jobs != nil {
		sched, err := workers.NewBackupSchedule(appCfg.BackupSchedule, deps.Archives, logger, timeouts.Batch())
		if err != nil {
			return err
		}
		sched.Start()
		deps.Jobs.Backups = sched
	}
	return nil
}

// ensureAdmin creates the bootstrap superadmin when email is set and unused.
// An existing user with that email is left untouched.
func ensureAdmin(ctx context.Context, db *mongo.Database, email, password string, logger *zap.Logger) error {
	if email == "" {
		return nil
	}
	created, err := userstore.New(db).EnsureAdmin(ctx, "Administrador", email, password)
	if err != nil {
		return fmt.Errorf("ensure admin %s: %w", email, err)
	}
	if created {
		logger.Info("created bootstrap superadmin", zap.String("email", email))
	}
	return nil
}
