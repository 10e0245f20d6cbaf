package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"waymark/internal/logging"
	"waymark/internal/store"
)

// Store provides typed key/value persistence over the app_settings table.
// The supported value types form a closed set: string, bool, int64, float64.
type Store struct {
	db     *store.DB
	logger *slog.Logger
}

// New constructs a settings store over the shared database handle.
func New(db *store.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Store{db: db, logger: logger}
}

// GetString returns the stored value for key, or fallback when the key is
// absent or holds a NULL value.
func (s *Store) GetString(ctx context.Context, key, fallback string) (string, error) {
	raw, ok, err := s.lookup(ctx, key)
	if err != nil || !ok {
		return fallback, err
	}
	return raw, nil
}

// GetBool returns the stored boolean for key. A malformed value yields the
// fallback; the failure is logged for diagnostics, never raised.
func (s *Store) GetBool(ctx context.Context, key string, fallback bool) (bool, error) {
	raw, ok, err := s.lookup(ctx, key)
	if err != nil || !ok {
		return fallback, err
	}
	value, parseErr := strconv.ParseBool(raw)
	if parseErr != nil {
		s.logParseFailure(key, raw, "bool", parseErr)
		return fallback, nil
	}
	return value, nil
}

// GetInt64 returns the stored integer for key, or fallback on absence or a
// malformed value.
func (s *Store) GetInt64(ctx context.Context, key string, fallback int64) (int64, error) {
	raw, ok, err := s.lookup(ctx, key)
	if err != nil || !ok {
		return fallback, err
	}
	value, parseErr := strconv.ParseInt(raw, 10, 64)
	if parseErr != nil {
		s.logParseFailure(key, raw, "int", parseErr)
		return fallback, nil
	}
	return value, nil
}

// GetFloat64 returns the stored float for key, or fallback on absence or a
// malformed value.
func (s *Store) GetFloat64(ctx context.Context, key string, fallback float64) (float64, error) {
	raw, ok, err := s.lookup(ctx, key)
	if err != nil || !ok {
		return fallback, err
	}
	value, parseErr := strconv.ParseFloat(raw, 64)
	if parseErr != nil {
		s.logParseFailure(key, raw, "float", parseErr)
		return fallback, nil
	}
	return value, nil
}

// SetString upserts a string value under key.
func (s *Store) SetString(ctx context.Context, key, value string) error {
	return s.upsert(ctx, key, value)
}

// SetBool upserts a boolean value under key in its canonical string form.
func (s *Store) SetBool(ctx context.Context, key string, value bool) error {
	return s.upsert(ctx, key, strconv.FormatBool(value))
}

// SetInt64 upserts an integer value under key in its canonical string form.
func (s *Store) SetInt64(ctx context.Context, key string, value int64) error {
	return s.upsert(ctx, key, strconv.FormatInt(value, 10))
}

// SetFloat64 upserts a float value under key in its canonical string form.
func (s *Store) SetFloat64(ctx context.Context, key string, value float64) error {
	return s.upsert(ctx, key, strconv.FormatFloat(value, 'g', -1, 64))
}

// Setting is one persisted key/value row.
type Setting struct {
	Key          string
	Value        string
	LastModified time.Time
}

// List returns every stored setting ordered by key.
func (s *Store) List(ctx context.Context) ([]Setting, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT key, value, last_modified FROM app_settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var out []Setting
	for rows.Next() {
		var (
			key      string
			value    sql.NullString
			modified string
		)
		if err := rows.Scan(&key, &value, &modified); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		setting := Setting{Key: key, Value: value.String}
		if ts, parseErr := time.Parse(time.RFC3339Nano, modified); parseErr == nil {
			setting.LastModified = ts
		}
		out = append(out, setting)
	}
	return out, rows.Err()
}

func (s *Store) lookup(ctx context.Context, key string) (string, bool, error) {
	var raw sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM app_settings WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get setting %q: %w", key, err)
	}
	if !raw.Valid {
		return "", false, nil
	}
	return raw.String, true, nil
}

func (s *Store) upsert(ctx context.Context, key, value string) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO app_settings (key, value, last_modified) VALUES (?, ?, ?)
         ON CONFLICT(key) DO UPDATE SET value = excluded.value, last_modified = excluded.last_modified`,
		key, value, now)
	if err != nil {
		return fmt.Errorf("set setting %q: %w", key, err)
	}
	return nil
}

func (s *Store) logParseFailure(key, raw, kind string, err error) {
	s.logger.Warn("malformed setting value, using default",
		slog.String("key", key),
		slog.String("value", raw),
		slog.String("type", kind),
		slog.String("error", err.Error()),
	)
}
