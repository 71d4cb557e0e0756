package backup_test

import (
	"bytes"
	"errors"
	"testing"

	backupstore "github.com/dalemusser/municipio/internal/app/store/backups"
	"github.com/dalemusser/municipio/internal/app/system/backup"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/dalemusser/municipio/internal/testutil"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newExporter(t *testing.T) (*backup.Exporter, *storage.Memory, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	objects := storage.NewMemory(storage.MemoryConfig{})
	exp := backup.NewExporter(db, objects, backupstore.New(db), "", zap.NewNop())
	return exp, objects, testutil.NewFixtures(t, db)
}

func TestWriteArchive_RoundTrip(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sec := fx.CreateSector(ctx, "agricultura", "Agricultura", 1)
	fx.CreateContact(ctx, sec.ID, "agricultura@cm.cv")
	fx.CreatePopulation(ctx, 2024, 1050)

	var buf bytes.Buffer
	n, err := backup.WriteArchive(ctx, db, &buf)
	if err != nil {
		t.Fatalf("WriteArchive failed: %v", err)
	}
	if n != 3 {
		t.Errorf("wrote %d documents, want 3", n)
	}

	counts := map[string]int{}
	var sectorID primitive.ObjectID
	err = backup.ReadArchive(&buf, func(l backup.Line) error {
		counts[l.Collection]++
		if l.Collection == "setores" {
			var s models.Sector
			if err := bson.Unmarshal(l.Document, &s); err != nil {
				return err
			}
			sectorID = s.ID
		}
		return nil
	})
	if err != nil {
		t.Fatalf("ReadArchive failed: %v", err)
	}
	if counts["setores"] != 1 || counts["setores_contactos"] != 1 || counts["populacao_historico"] != 1 {
		t.Errorf("counts = %v", counts)
	}
	if sectorID != sec.ID {
		t.Errorf("sector id not preserved: %s vs %s", sectorID.Hex(), sec.ID.Hex())
	}
}

func TestExporter_RunRecordsAndRemove(t *testing.T) {
	exp, objects, fx := newExporter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx.CreateSector(ctx, "educacao", "Educação", 1)

	rec, err := exp.Run(ctx, models.BackupManual)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if rec.ID.IsZero() {
		t.Error("expected a recorded backup row")
	}
	if rec.State != models.BackupCompleted || rec.Origin != models.BackupManual {
		t.Errorf("rec = %+v", rec)
	}
	if rec.Documents != 1 || rec.Size == 0 {
		t.Errorf("Documents = %d, Size = %d", rec.Documents, rec.Size)
	}

	info, err := objects.Head(ctx, rec.Key)
	if err != nil {
		t.Fatalf("archive not stored: %v", err)
	}
	if info.ContentType != backup.ContentType {
		t.Errorf("ContentType = %q, want %q", info.ContentType, backup.ContentType)
	}
	rc, err := objects.Get(ctx, rec.Key)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	var lines int
	if err := backup.ReadArchive(rc, func(backup.Line) error { lines++; return nil }); err != nil {
		t.Fatalf("ReadArchive failed: %v", err)
	}
	rc.Close()
	if lines != 1 {
		t.Errorf("archive has %d lines, want 1", lines)
	}

	list, err := exp.List(ctx, 10)
	if err != nil || len(list) != 1 {
		t.Fatalf("List = %v, %v", list, err)
	}

	opened, orc, err := exp.Open(ctx, rec.ID)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	orc.Close()
	if opened.Key != rec.Key {
		t.Errorf("Open key = %q, want %q", opened.Key, rec.Key)
	}

	if err := exp.Remove(ctx, rec.ID); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, _, err := exp.Open(ctx, rec.ID); !errors.Is(err, backup.ErrNotFound) {
		t.Errorf("Open after Remove: got %v, want ErrNotFound", err)
	}
	if _, err := objects.Get(ctx, rec.Key); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("archive should be gone, got %v", err)
	}
	if err := exp.Remove(ctx, rec.ID); !errors.Is(err, backup.ErrNotFound) {
		t.Errorf("second Remove: got %v, want ErrNotFound", err)
	}
}

func TestExporter_RemoveToleratesMissingArchive(t *testing.T) {
	exp, objects, fx := newExporter(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fx.CreateSector(ctx, "pescas", "Pescas", 1)

	rec, err := exp.Run(ctx, models.BackupScheduled)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	objects.Clear()

	if err := exp.Remove(ctx, rec.ID); err != nil {
		t.Fatalf("Remove with missing archive: %v", err)
	}
	if _, err := exp.List(ctx, 10); err != nil {
		t.Fatalf("List failed: %v", err)
	}
}
