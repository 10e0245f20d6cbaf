package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// SchemaVersionKey is the reserved settings key holding the schema version.
const SchemaVersionKey = "schema.version"

// baseSchemaVersion is the implied version of a database that predates the
// version sentinel.
const baseSchemaVersion = 1

type migrationStep struct {
	version int
	apply   func(context.Context, *DB) error
}

// Steps move the schema forward only; there are no down-migrations. Every
// step must be idempotent so a crash mid-step can safely re-run on restart.
var migrationSteps = []migrationStep{
	{
		version: 2,
		apply: func(ctx context.Context, d *DB) error {
			if err := d.addColumnIfMissing(ctx, "location_queue", "activity_type_id", "INTEGER"); err != nil {
				return err
			}
			return d.addColumnIfMissing(ctx, "location_queue", "notes", "TEXT")
		},
	},
	{
		version: 3,
		apply: func(ctx context.Context, d *DB) error {
			if err := d.addColumnIfMissing(ctx, "location_queue", "server_confirmed", "INTEGER NOT NULL DEFAULT 0"); err != nil {
				return err
			}
			_, err := d.sql.ExecContext(ctx,
				`CREATE INDEX IF NOT EXISTS idx_location_queue_confirmed ON location_queue (server_confirmed)`)
			if err != nil {
				return fmt.Errorf("create server_confirmed index: %w", err)
			}
			return nil
		},
	},
}

// TargetSchemaVersion is the version a fully migrated database reports.
func TargetSchemaVersion() int {
	if len(migrationSteps) == 0 {
		return baseSchemaVersion
	}
	return migrationSteps[len(migrationSteps)-1].version
}

func (d *DB) applyMigrations(ctx context.Context) error {
	current, err := d.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, step := range migrationSteps {
		if step.version <= current {
			continue
		}
		if err := step.apply(ctx, d); err != nil {
			return fmt.Errorf("apply migration %d: %w", step.version, err)
		}
		if err := d.writeSchemaVersion(ctx, step.version); err != nil {
			return fmt.Errorf("record migration %d: %w", step.version, err)
		}
		current = step.version
	}
	return nil
}

// SchemaVersion reads the version sentinel from the settings table. An absent
// or unreadable sentinel means a pre-versioning database.
func (d *DB) SchemaVersion(ctx context.Context) (int, error) {
	var raw sql.NullString
	err := d.sql.QueryRowContext(ctx,
		`SELECT value FROM app_settings WHERE key = ?`, SchemaVersionKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return baseSchemaVersion, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	if !raw.Valid {
		return baseSchemaVersion, nil
	}
	version, convErr := strconv.Atoi(raw.String)
	if convErr != nil {
		return 0, fmt.Errorf("parse schema version %q: %w", raw.String, convErr)
	}
	return version, nil
}

func (d *DB) writeSchemaVersion(ctx context.Context, version int) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := d.sql.ExecContext(ctx,
		`INSERT INTO app_settings (key, value, last_modified) VALUES (?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value, last_modified = excluded.last_modified`,
		SchemaVersionKey, strconv.Itoa(version), now)
	if err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}

func (d *DB) addColumnIfMissing(ctx context.Context, table, column, definition string) error {
	exists, err := d.columnExists(ctx, table, column)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if _, err := d.sql.ExecContext(ctx,
		fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition)); err != nil {
		return fmt.Errorf("add column %s.%s: %w", table, column, err)
	}
	return nil
}

func (d *DB) columnExists(ctx context.Context, table, column string) (bool, error) {
	rows, err := d.sql.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return false, fmt.Errorf("table info %s: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid     int
			name    string
			typeStr string
			notNull int
			dflt    any
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typeStr, &notNull, &dflt, &pk); err != nil {
			return false, fmt.Errorf("scan table info: %w", err)
		}
		if name == column {
			return true, nil
		}
	}
	return false, rows.Err()
}
