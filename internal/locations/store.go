package locations

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"waymark/internal/store"
)

// Store validates and enqueues GPS fixes, assigns delivery-dedupe tokens,
// and runs the eviction policy. It is the single enqueue/evict entry point
// for both the background capture path and manual check-ins.
type Store struct {
	db *store.DB
}

// New wraps the shared database handle in a location queue store.
func New(db *store.DB) *Store {
	return &Store{db: db}
}

// Enqueue validates and persists a fix with status pending and a fresh
// idempotency key, then enforces the queue ceiling. The returned row is never
// nil on success: if eviction reclaims the fresh row before read-back, the
// insert-time snapshot is returned instead.
func (s *Store) Enqueue(ctx context.Context, fix Fix, ceiling int) (*Location, error) {
	if !validCoordinate(fix.Latitude, 90) || !validCoordinate(fix.Longitude, 180) {
		return nil, ErrInvalidCoordinates
	}

	recordedAt := fix.RecordedAt
	if recordedAt.IsZero() {
		recordedAt = time.Now()
	}
	now := time.Now().UTC()
	key := uuid.NewString()
	provider := strings.TrimSpace(fix.Provider)

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO location_queue (
            latitude, longitude, altitude, accuracy, speed, bearing,
            recorded_at, provider, sync_status, is_rejected, idempotency_key,
            user_invoked, activity_type_id, notes, server_confirmed, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, ?, ?, ?, 0, ?)`,
		fix.Latitude,
		fix.Longitude,
		finiteOrNull(fix.Altitude),
		finiteOrNull(fix.Accuracy),
		finiteOrNull(fix.Speed),
		finiteOrNull(fix.Bearing),
		recordedAt.UTC().Format(time.RFC3339Nano),
		nullableString(provider),
		StatusPending,
		key,
		boolToInt(fix.UserInvoked),
		nullableInt64(fix.ActivityTypeID),
		nullableString(fix.Notes),
		now.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert location: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}

	if err := s.enforceCeiling(ctx, ceiling); err != nil {
		return nil, err
	}

	loc, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if loc == nil {
		// Only syncing rows were left to protect, so pass 2 took the fresh
		// row itself. Report it as inserted.
		loc = &Location{
			ID:             id,
			Latitude:       fix.Latitude,
			Longitude:      fix.Longitude,
			Altitude:       finitePtr(fix.Altitude),
			Accuracy:       finitePtr(fix.Accuracy),
			Speed:          finitePtr(fix.Speed),
			Bearing:        finitePtr(fix.Bearing),
			RecordedAt:     recordedAt.UTC(),
			Provider:       provider,
			Status:         StatusPending,
			IdempotencyKey: key,
			UserInvoked:    fix.UserInvoked,
			Notes:          fix.Notes,
			CreatedAt:      now,
		}
		if fix.ActivityTypeID != nil {
			v := *fix.ActivityTypeID
			loc.ActivityTypeID = &v
		}
	}
	return loc, nil
}

// enforceCeiling applies the reactive eviction policy after an insert. Rows
// currently syncing are never candidates; each pass is one set-scoped delete
// so concurrent invocations cannot leave partial state.
func (s *Store) enforceCeiling(ctx context.Context, ceiling int) error {
	if ceiling <= 0 {
		return nil
	}

	count, err := s.Count(ctx)
	if err != nil {
		return err
	}
	if count <= ceiling {
		return nil
	}

	// Trims to ceiling-1, leaving one row of headroom for the next insert.
	toDelete := count - ceiling + 1

	res, err := s.db.ExecContext(
		ctx,
		`DELETE FROM location_queue WHERE id IN (
            SELECT id FROM location_queue
            WHERE (sync_status = ? AND is_rejected = 0) OR is_rejected = 1
            ORDER BY recorded_at, id
            LIMIT ?
        )`,
		StatusSynced,
		toDelete,
	)
	if err != nil {
		return fmt.Errorf("evict safe rows: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if removed >= int64(toDelete) {
		return nil
	}

	_, err = s.db.ExecContext(
		ctx,
		`DELETE FROM location_queue WHERE id IN (
            SELECT id FROM location_queue
            WHERE sync_status = ? AND is_rejected = 0
            ORDER BY recorded_at, id
            LIMIT ?
        )`,
		StatusPending,
		int64(toDelete)-removed,
	)
	if err != nil {
		return fmt.Errorf("evict pending rows: %w", err)
	}
	return nil
}

func validCoordinate(value, bound float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}
	return value >= -bound && value <= bound
}

func finiteOrNull(value *float64) any {
	if p := finitePtr(value); p != nil {
		return *p
	}
	return nil
}

func finitePtr(value *float64) *float64 {
	if value == nil || math.IsNaN(*value) || math.IsInf(*value, 0) {
		return nil
	}
	v := *value
	return &v
}
