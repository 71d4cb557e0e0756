package workers_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dalemusser/municipio/internal/app/system/workers"
	"github.com/dalemusser/municipio/internal/domain/models"
	"go.uber.org/zap"
)

type countingRunner struct {
	calls  atomic.Int32
	origin atomic.Value
	err    error
}

func (r *countingRunner) Run(ctx context.Context, origin string) (models.Backup, error) {
	r.calls.Add(1)
	r.origin.Store(origin)
	if _, ok := ctx.Deadline(); !ok {
		return models.Backup{}, errors.New("run has no deadline")
	}
	return models.Backup{Origin: origin}, r.err
}

func TestParseSchedule(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr bool
	}{
		{"0 3 * * *", false},
		{"@daily", false},
		{"*/15 * * * *", false},
		{"not a schedule", true},
		{"0 3 * *", true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			err := workers.ParseSchedule(tt.spec)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseSchedule(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
		})
	}
}

func TestNewBackupSchedule_InvalidSpec(t *testing.T) {
	if _, err := workers.NewBackupSchedule("bogus", &countingRunner{}, zap.NewNop(), time.Minute); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}

func TestBackupSchedule_RunOnce(t *testing.T) {
	r := &countingRunner{}
	w, err := workers.NewBackupSchedule("@daily", r, zap.NewNop(), time.Minute)
	if err != nil {
		t.Fatalf("NewBackupSchedule failed: %v", err)
	}

	w.RunOnce()
	if r.calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", r.calls.Load())
	}
	if got := r.origin.Load(); got != models.BackupScheduled {
		t.Errorf("origin = %v, want %q", got, models.BackupScheduled)
	}

	// A failing run is logged, not propagated.
	r.err = errors.New("bucket unavailable")
	w.RunOnce()
	if r.calls.Load() != 2 {
		t.Errorf("calls = %d, want 2", r.calls.Load())
	}
}

func TestBackupSchedule_StartStop(t *testing.T) {
	w, err := workers.NewBackupSchedule("@daily", &countingRunner{}, zap.NewNop(), time.Minute)
	if err != nil {
		t.Fatalf("NewBackupSchedule failed: %v", err)
	}
	w.Start()
	w.Stop()
}
