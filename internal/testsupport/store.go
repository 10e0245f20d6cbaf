package testsupport

import (
	"testing"

	"waymark/internal/config"
	"waymark/internal/locations"
	"waymark/internal/store"
)

// MustOpenDB opens the database for cfg and registers cleanup.
func MustOpenDB(t testing.TB, cfg *config.Config) *store.DB {
	t.Helper()

	db, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

// MustOpenLocations opens the database and wraps it in a location queue store.
func MustOpenLocations(t testing.TB, cfg *config.Config) *locations.Store {
	t.Helper()
	return locations.New(MustOpenDB(t, cfg))
}
