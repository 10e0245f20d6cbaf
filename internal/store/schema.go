package store

import (
	"context"
	"fmt"
)

// createSchema creates every table and index with IF NOT EXISTS guards so a
// crash between statements can safely re-run the whole block on restart.
var createStatements = []string{
	`CREATE TABLE IF NOT EXISTS app_settings (
        key TEXT PRIMARY KEY,
        value TEXT,
        last_modified TEXT NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS location_queue (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        latitude REAL NOT NULL,
        longitude REAL NOT NULL,
        altitude REAL,
        accuracy REAL,
        speed REAL,
        bearing REAL,
        recorded_at TEXT NOT NULL,
        provider TEXT,
        sync_status TEXT NOT NULL DEFAULT 'pending',
        is_rejected INTEGER NOT NULL DEFAULT 0,
        idempotency_key TEXT NOT NULL UNIQUE,
        user_invoked INTEGER NOT NULL DEFAULT 0,
        activity_type_id INTEGER,
        notes TEXT,
        server_confirmed INTEGER NOT NULL DEFAULT 0,
        created_at TEXT NOT NULL
    )`,
	`CREATE INDEX IF NOT EXISTS idx_location_queue_claim
        ON location_queue (sync_status, is_rejected, recorded_at)`,
	`CREATE INDEX IF NOT EXISTS idx_location_queue_confirmed
        ON location_queue (server_confirmed)`,
}

func (d *DB) createSchema(ctx context.Context) error {
	for _, stmt := range createStatements {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
