package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/municipio/internal/app/store/audit"
	"github.com/dalemusser/municipio/internal/app/system/auditlog"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/dalemusser/municipio/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("POST", "/login", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, primitive.NewObjectID(), "ana@cm.cv")
	logger.Logout(ctx, req)
}

func TestLogger_Settings(t *testing.T) {
	tests := []struct {
		setting string
		stored  int64
	}{
		{auditlog.All, 1},
		{auditlog.DB, 1},
		{auditlog.Log, 0},
		{auditlog.Off, 0},
	}
	for _, tt := range tests {
		t.Run(tt.setting, func(t *testing.T) {
			db := testutil.SetupTestDB(t)
			store := audit.New(db)
			ctx, cancel := testutil.TestContext()
			defer cancel()

			logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: tt.setting, Admin: auditlog.Off})
			logger.LoginFailed(ctx, httptest.NewRequest("POST", "/login", nil), "ana@cm.cv")

			n, err := store.CountByFilter(ctx, audit.QueryFilter{})
			if err != nil {
				t.Fatalf("CountByFilter failed: %v", err)
			}
			if n != tt.stored {
				t.Errorf("stored %d events, want %d", n, tt.stored)
			}
		})
	}
}

func TestLogger_AdminEventCarriesActor(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: auditlog.All, Admin: auditlog.All})

	admin := testutil.AdminUser()
	req := testutil.WithUser(httptest.NewRequest("POST", "/admin/utilizadores", nil), admin)
	req.RemoteAddr = "10.1.2.3:51000"
	target := primitive.NewObjectID()
	logger.UserCreated(ctx, req, target, "setor_saude")

	events, err := store.Query(ctx, audit.QueryFilter{Category: audit.CategoryAdmin})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	e := events[0]
	if e.ActorID == nil || e.ActorID.Hex() != admin.ID {
		t.Errorf("actor = %v, want %s", e.ActorID, admin.ID)
	}
	if e.UserID == nil || *e.UserID != target {
		t.Errorf("user = %v, want %s", e.UserID, target.Hex())
	}
	if e.IP != "10.1.2.3" || e.Details["role"] != "setor_saude" || e.Details["actor_role"] != "admin" {
		t.Errorf("event = %+v", e)
	}
}

func TestLogger_BackupFailureIsUnsuccessful(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Admin: auditlog.DB})

	req := testutil.WithUser(httptest.NewRequest("POST", "/admin/backups", nil), testutil.AdminUser())
	logger.BackupCreated(ctx, req, models.Backup{ID: primitive.NewObjectID(), State: models.BackupFailed, Error: "bucket missing"})

	events, err := store.Query(ctx, audit.QueryFilter{EventType: audit.EventBackupCreated})
	if err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if len(events) != 1 || events[0].Success || events[0].FailureReason != "bucket missing" {
		t.Errorf("events = %+v", events)
	}
}
