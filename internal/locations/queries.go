package locations

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// GetByID fetches a queued location by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Location, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+locationColumns+` FROM location_queue WHERE id = ?`, id)
	loc, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get location: %w", err)
	}
	return loc, nil
}

// List returns queued locations filtered by status set (or all rows when no
// status is provided), ordered by capture time.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Location, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + locationColumns + ` FROM location_queue`
	orderClause := ` ORDER BY recorded_at, id`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE sync_status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []*Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

// NextPending returns the oldest pending, not-rejected rows up to limit. The
// claim index (sync_status, is_rejected, recorded_at) backs this query.
func (s *Store) NextPending(ctx context.Context, limit int) ([]*Location, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+locationColumns+` FROM location_queue
         WHERE sync_status = ? AND is_rejected = 0
         ORDER BY recorded_at, id
         LIMIT ?`,
		StatusPending,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("next pending: %w", err)
	}
	defer rows.Close()

	var out []*Location
	for rows.Next() {
		loc, err := scanLocation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, rows.Err()
}

// FindByIdempotencyKey returns the row carrying a dedupe token, if any.
func (s *Store) FindByIdempotencyKey(ctx context.Context, key string) (*Location, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+locationColumns+` FROM location_queue WHERE idempotency_key = ?`, key)
	loc, err := scanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find by idempotency key: %w", err)
	}
	return loc, nil
}

// Count returns the total number of queued rows.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM location_queue`)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count locations: %w", err)
	}
	return count, nil
}

// Stats returns a count of rows grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT sync_status, COUNT(1) FROM location_queue GROUP BY sync_status`)
	if err != nil {
		return nil, fmt.Errorf("queue stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates queue state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusPending:
			health.Pending += count
		case StatusSyncing:
			health.Syncing += count
		case StatusSynced:
			health.Synced += count
		}
	}

	var rejected int
	row := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM location_queue WHERE is_rejected = 1`)
	if err := row.Scan(&rejected); err != nil {
		return HealthSummary{}, fmt.Errorf("count rejected: %w", err)
	}
	health.Rejected = rejected
	return health, nil
}
