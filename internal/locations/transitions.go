package locations

import (
	"context"
	"fmt"
)

// MarkSyncing claims pending rows for upload. Only pending, not-rejected rows
// transition; the returned count reflects rows actually claimed.
func (s *Store) MarkSyncing(ctx context.Context, ids ...int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `UPDATE location_queue SET sync_status = ?
        WHERE id IN (` + makePlaceholders(len(ids)) + `) AND sync_status = ? AND is_rejected = 0`
	args := append([]any{StatusSyncing}, idArgs(ids)...)
	args = append(args, StatusPending)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark syncing: %w", err)
	}
	return res.RowsAffected()
}

// MarkConfirmed records the remote ack before the final status write, so a
// crash in between can be recovered without re-sending.
func (s *Store) MarkConfirmed(ctx context.Context, ids ...int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `UPDATE location_queue SET server_confirmed = 1
        WHERE id IN (` + makePlaceholders(len(ids)) + `)`
	res, err := s.db.ExecContext(ctx, query, idArgs(ids)...)
	if err != nil {
		return 0, fmt.Errorf("mark confirmed: %w", err)
	}
	return res.RowsAffected()
}

// MarkSynced completes delivery for claimed rows.
func (s *Store) MarkSynced(ctx context.Context, ids ...int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `UPDATE location_queue SET sync_status = ?, server_confirmed = 1
        WHERE id IN (` + makePlaceholders(len(ids)) + `) AND sync_status = ?`
	args := append([]any{StatusSynced}, idArgs(ids)...)
	args = append(args, StatusSyncing)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("mark synced: %w", err)
	}
	return res.RowsAffected()
}

// Requeue returns claimed rows to pending after a transient upload failure.
func (s *Store) Requeue(ctx context.Context, ids ...int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `UPDATE location_queue SET sync_status = ?
        WHERE id IN (` + makePlaceholders(len(ids)) + `) AND sync_status = ?`
	args := append([]any{StatusPending}, idArgs(ids)...)
	args = append(args, StatusSyncing)
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("requeue: %w", err)
	}
	return res.RowsAffected()
}

// MarkRejected flags a row the server permanently refused. The row leaves the
// syncing state so eviction can reclaim it.
func (s *Store) MarkRejected(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE location_queue SET is_rejected = 1, sync_status = ? WHERE id = ?`,
		StatusPending,
		id,
	)
	if err != nil {
		return fmt.Errorf("mark rejected: %w", err)
	}
	return nil
}

// ResetStuckSyncing recovers rows left syncing by a crashed upload. Rows the
// server already confirmed are finalized to synced; the rest return to
// pending for a fresh attempt. Returns (finalized, requeued).
func (s *Store) ResetStuckSyncing(ctx context.Context) (int64, int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE location_queue SET sync_status = ?
         WHERE sync_status = ? AND server_confirmed = 1`,
		StatusSynced,
		StatusSyncing,
	)
	if err != nil {
		return 0, 0, fmt.Errorf("finalize confirmed rows: %w", err)
	}
	finalized, err := res.RowsAffected()
	if err != nil {
		return 0, 0, fmt.Errorf("rows affected: %w", err)
	}

	res, err = s.db.ExecContext(
		ctx,
		`UPDATE location_queue SET sync_status = ? WHERE sync_status = ?`,
		StatusPending,
		StatusSyncing,
	)
	if err != nil {
		return finalized, 0, fmt.Errorf("requeue stuck rows: %w", err)
	}
	requeued, err := res.RowsAffected()
	if err != nil {
		return finalized, 0, fmt.Errorf("rows affected: %w", err)
	}
	return finalized, requeued, nil
}
