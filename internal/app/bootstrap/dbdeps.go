// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"github.com/dalemusser/municipio/internal/app/system/backup"
	"github.com/dalemusser/municipio/internal/app/system/workers"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database/back-end dependencies for the app.
type DBDeps struct {
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// Objects holds organigram photos and backup archives.
	Objects  storage.Store
	Archives *backup.Exporter

	// Jobs is filled in by Startup and stopped by Shutdown.
	Jobs *Jobs
}

// Jobs are the background workers started with the app.
type Jobs struct {
	Backups *workers.BackupSchedule
}
