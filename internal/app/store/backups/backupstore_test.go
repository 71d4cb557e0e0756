package backupstore_test

import (
	"testing"

	backupstore "github.com/dalemusser/municipio/internal/app/store/backups"
	"github.com/dalemusser/municipio/internal/domain/models"
	"github.com/dalemusser/municipio/internal/testutil"
)

func TestStore_RecentNewestFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := backupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	for _, name := range []string{"a.ndjson.gz", "b.ndjson.gz", "c.ndjson.gz"} {
		if _, err := store.Record(ctx, models.Backup{FileName: name, Key: "backups/" + name, Origin: models.BackupManual, State: models.BackupCompleted}); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}

	got, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d backups, want 2", len(got))
	}
	if got[0].FileName != "c.ndjson.gz" || got[1].FileName != "b.ndjson.gz" {
		t.Errorf("order = %s, %s", got[0].FileName, got[1].FileName)
	}
	if got[0].Collections == nil {
		t.Error("Collections should be an empty array, not nil")
	}

	all, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("got %d backups, want 3", len(all))
	}
}
