package store_test

import (
	"context"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"waymark/internal/store"
	"waymark/internal/testsupport"
)

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	db, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer db.Close()

	ctx := context.Background()
	for _, table := range []string{"app_settings", "location_queue"} {
		var name string
		row := db.QueryRowContext(ctx,
			`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table)
		if err := row.Scan(&name); err != nil {
			t.Fatalf("expected table %s: %v", table, err)
		}
	}

	version, err := db.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != store.TargetSchemaVersion() {
		t.Fatalf("expected version %d, got %d", store.TargetSchemaVersion(), version)
	}
}

func TestReopenIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	first, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	second, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer second.Close()

	version, err := second.SchemaVersion(context.Background())
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != store.TargetSchemaVersion() {
		t.Fatalf("expected version %d after reopen, got %d", store.TargetSchemaVersion(), version)
	}
}

func TestMigrationResumesAfterPartialRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	// Simulate a crash mid-migration: schema fully created but the sentinel
	// still reports an older version. Reopening must re-run the remaining
	// steps without error and land on the target version.
	db, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	ctx := context.Background()
	_, err = db.ExecContext(ctx,
		`UPDATE app_settings SET value = ? WHERE key = ?`,
		strconv.Itoa(2), store.SchemaVersionKey)
	if err != nil {
		t.Fatalf("rewind version: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("reopen after partial migration failed: %v", err)
	}
	defer reopened.Close()

	version, err := reopened.SchemaVersion(ctx)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != store.TargetSchemaVersion() {
		t.Fatalf("expected version %d, got %d", store.TargetSchemaVersion(), version)
	}
}

func TestLazySharesSingleHandle(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	var opens int
	lazy := store.NewLazy(func() (*store.DB, error) {
		opens++
		return store.Open(cfg)
	})
	defer lazy.Close()

	ctx := context.Background()
	const callers = 8
	results := make([]*store.DB, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			db, err := lazy.Get(ctx)
			if err != nil {
				t.Errorf("Get failed: %v", err)
				return
			}
			results[i] = db
		}(i)
	}
	wg.Wait()

	if opens != 1 {
		t.Fatalf("expected exactly one open, got %d", opens)
	}
	for i := 1; i < callers; i++ {
		if results[i] != results[0] {
			t.Fatal("expected all callers to share one handle")
		}
	}
}

func TestLazyRetriesAfterFailedOpen(t *testing.T) {
	dir := t.TempDir()
	attempts := 0
	lazy := store.NewLazy(func() (*store.DB, error) {
		attempts++
		if attempts == 1 {
			return nil, context.DeadlineExceeded
		}
		return store.OpenPath(filepath.Join(dir, "waymark.db"))
	})
	defer lazy.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := lazy.Get(ctx); err == nil {
		t.Fatal("expected first Get to fail")
	}
	db, err := lazy.Get(ctx)
	if err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
	if db == nil {
		t.Fatal("expected handle after retry")
	}
}
