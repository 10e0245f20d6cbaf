package uploader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"waymark/internal/config"
	"waymark/internal/locations"
	"waymark/internal/logging"
)

// Uploader claims queued locations and delivers them to the remote endpoint.
// All retry and timeout policy lives here; the queue store below it only
// records status transitions.
type Uploader struct {
	store    *locations.Store
	client   *http.Client
	logger   *slog.Logger
	endpoint string

	batchSize     int
	pollInterval  time.Duration
	errorInterval time.Duration
}

// Result summarizes one upload pass.
type Result struct {
	Claimed  int
	Synced   int
	Rejected int
	Requeued int
}

// New constructs an uploader from application configuration.
func New(cfg *config.Config, store *locations.Store, logger *slog.Logger) (*Uploader, error) {
	if store == nil {
		return nil, errors.New("uploader requires a location store")
	}
	if cfg == nil {
		return nil, errors.New("uploader requires configuration")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	return &Uploader{
		store:         store,
		client:        &http.Client{Timeout: time.Duration(cfg.Uploader.RequestTimeout) * time.Second},
		logger:        logger.With(slog.String("component", "uploader")),
		endpoint:      cfg.Uploader.Endpoint,
		batchSize:     cfg.Uploader.BatchSize,
		pollInterval:  time.Duration(cfg.Uploader.PollInterval) * time.Second,
		errorInterval: time.Duration(cfg.Uploader.ErrorRetryInterval) * time.Second,
	}, nil
}

// payload is the wire form of one location. The remote endpoint deduplicates
// retried submissions on the Idempotency-Key header, not the body.
type payload struct {
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Altitude       *float64 `json:"altitude,omitempty"`
	Accuracy       *float64 `json:"accuracy,omitempty"`
	Speed          *float64 `json:"speed,omitempty"`
	Bearing        *float64 `json:"bearing,omitempty"`
	RecordedAt     string   `json:"recorded_at"`
	Provider       string   `json:"provider,omitempty"`
	UserInvoked    bool     `json:"user_invoked,omitempty"`
	ActivityTypeID *int64   `json:"activity_type_id,omitempty"`
	Notes          string   `json:"notes,omitempty"`
}

// UploadOnce claims one batch and attempts delivery for each row. Transient
// failures requeue the row; a 4xx response marks it permanently rejected.
func (u *Uploader) UploadOnce(ctx context.Context) (Result, error) {
	var result Result

	batch, err := u.store.NextPending(ctx, u.batchSize)
	if err != nil {
		return result, err
	}
	if len(batch) == 0 {
		return result, nil
	}

	ids := make([]int64, 0, len(batch))
	for _, loc := range batch {
		ids = append(ids, loc.ID)
	}
	claimed, err := u.store.MarkSyncing(ctx, ids...)
	if err != nil {
		return result, err
	}
	result.Claimed = int(claimed)

	var firstErr error
	for _, loc := range batch {
		status, sendErr := u.send(ctx, loc)
		switch {
		case sendErr == nil && status >= 200 && status < 300:
			// Record the ack before the status write so a crash in between is
			// recoverable without re-sending.
			if _, err := u.store.MarkConfirmed(ctx, loc.ID); err != nil {
				return result, err
			}
			if _, err := u.store.MarkSynced(ctx, loc.ID); err != nil {
				return result, err
			}
			result.Synced++
		case sendErr == nil && status >= 400 && status < 500:
			if err := u.store.MarkRejected(ctx, loc.ID); err != nil {
				return result, err
			}
			result.Rejected++
			u.logger.Warn("location permanently rejected",
				slog.Int64("id", loc.ID),
				slog.Int("status", status))
		default:
			if _, err := u.store.Requeue(ctx, loc.ID); err != nil {
				return result, err
			}
			result.Requeued++
			if sendErr != nil && firstErr == nil {
				firstErr = sendErr
			}
			if sendErr == nil && firstErr == nil {
				firstErr = fmt.Errorf("upload: unexpected status %d", status)
			}
		}
	}
	return result, firstErr
}

func (u *Uploader) send(ctx context.Context, loc *locations.Location) (int, error) {
	body, err := json.Marshal(payload{
		Latitude:       loc.Latitude,
		Longitude:      loc.Longitude,
		Altitude:       loc.Altitude,
		Accuracy:       loc.Accuracy,
		Speed:          loc.Speed,
		Bearing:        loc.Bearing,
		RecordedAt:     loc.RecordedAt.UTC().Format(time.RFC3339Nano),
		Provider:       loc.Provider,
		UserInvoked:    loc.UserInvoked,
		ActivityTypeID: loc.ActivityTypeID,
		Notes:          loc.Notes,
	})
	if err != nil {
		return 0, fmt.Errorf("marshal location: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Idempotency-Key", loc.IdempotencyKey)

	resp, err := u.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("post location: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	return resp.StatusCode, nil
}

// Run polls the queue until ctx is canceled, backing off after failed passes.
func (u *Uploader) Run(ctx context.Context) error {
	interval := u.pollInterval
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}

		result, err := u.UploadOnce(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			u.logger.Warn("upload pass failed",
				slog.String("error", err.Error()),
				slog.Int("requeued", result.Requeued))
			interval = u.errorInterval
			continue
		}
		if result.Claimed > 0 {
			u.logger.Info("upload pass complete",
				slog.Int("claimed", result.Claimed),
				slog.Int("synced", result.Synced),
				slog.Int("rejected", result.Rejected),
				slog.Int("requeued", result.Requeued))
		}
		interval = u.pollInterval
	}
}
