// internal/app/system/workers/backupschedule.go
package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// BackupRunner is the part of backup.Exporter the scheduler needs.
type BackupRunner interface {
	Run(ctx context.Context, origin string) (models.Backup, error)
}

// BackupSchedule runs a backup on a cron schedule.
type BackupSchedule struct {
	cron    *cron.Cron
	runner  BackupRunner
	log     *zap.Logger
	spec    string
	timeout time.Duration
}

// ParseSchedule validates a standard five-field cron spec.
func ParseSchedule(spec string) error {
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	return nil
}

// NewBackupSchedule creates the worker. timeout bounds each run.
func NewBackupSchedule(spec string, runner BackupRunner, logger *zap.Logger, timeout time.Duration) (*BackupSchedule, error) {
	w := &BackupSchedule{
		cron:    cron.New(),
		runner:  runner,
		log:     logger,
		spec:    spec,
		timeout: timeout,
	}
	if _, err := w.cron.AddFunc(spec, w.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", spec, err)
	}
	return w, nil
}

// Start begins running the schedule in the background.
func (w *BackupSchedule) Start() {
	w.cron.Start()
	w.log.Info("backup schedule started", zap.String("schedule", w.spec))
}

// Stop halts the schedule and waits for a running backup to finish.
func (w *BackupSchedule) Stop() {
	<-w.cron.Stop().Done()
	w.log.Info("backup schedule stopped")
}

// RunOnce performs one scheduled backup.
func (w *BackupSchedule) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	if _, err := w.runner.Run(ctx, models.BackupScheduled); err != nil {
		w.log.Error("scheduled backup failed", zap.Error(err))
	}
}
