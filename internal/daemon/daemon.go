package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"waymark/internal/config"
	"waymark/internal/locations"
	"waymark/internal/logging"
	"waymark/internal/uploader"
)

// Daemon runs the background sync loop and enforces single-instance execution
// via a lock file in the data directory.
type Daemon struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *locations.Store

	lockPath string
	lock     *flock.Flock

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Uploader     bool
	DatabasePath string
	LockFilePath string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *locations.Store, logger *slog.Logger) (*Daemon, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("daemon requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	lockPath := filepath.Join(cfg.Paths.DataDir, "waymarkd.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the instance lock, recovers rows stranded in syncing by a
// previous crash, and launches the uploader loop when one is configured.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another waymark daemon instance is already running")
	}

	finalized, requeued, err := d.store.ResetStuckSyncing(ctx)
	if err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("recover stuck rows: %w", err)
	}
	if finalized > 0 || requeued > 0 {
		d.logger.Info("recovered stranded uploads",
			slog.Int64("finalized", finalized),
			slog.Int64("requeued", requeued))
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	if d.cfg.Uploader.Enabled {
		up, err := uploader.New(d.cfg, d.store, d.logger)
		if err != nil {
			_ = d.lock.Unlock()
			d.cancel()
			d.ctx = nil
			d.cancel = nil
			return fmt.Errorf("start uploader: %w", err)
		}
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			if err := up.Run(d.ctx); err != nil && !errors.Is(err, context.Canceled) {
				d.logger.Error("uploader loop exited", slog.String("error", err.Error()))
			}
		}()
	} else {
		d.logger.Info("uploader disabled, daemon holds the queue only")
	}

	d.running.Store(true)
	d.logger.Info("waymark daemon started", slog.String("lock", d.lockPath))
	return nil
}

// Stop stops background processing and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	d.wg.Wait()
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", slog.String("error", err.Error()))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("waymark daemon stopped")
}

// Wait blocks until the background loop exits.
func (d *Daemon) Wait() {
	d.wg.Wait()
}

// Status returns the current daemon status.
func (d *Daemon) Status() Status {
	return Status{
		Running:      d.running.Load(),
		Uploader:     d.cfg.Uploader.Enabled,
		DatabasePath: d.cfg.DatabasePath(),
		LockFilePath: d.lockPath,
	}
}
