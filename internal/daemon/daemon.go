package daemon

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync/atomic"

	"log/slog"

	"github.com/gofrs/flock"

	"downfileorg/internal/config"
	"downfileorg/internal/logging"
	"downfileorg/internal/monitor"
	"downfileorg/internal/organizer"
	"downfileorg/internal/queue"
	"downfileorg/internal/workflow"
)

// Daemon owns the watch-mode lifecycle: a single-instance lock, the change
// monitor producing queue items, and the workflow manager consuming them.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *queue.Store
	workflow *workflow.Manager
	monitor  *monitor.Monitor

	lockPath string
	lock     *flock.Flock
	guard    *organizer.PassGuard

	running atomic.Bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running            bool
	Workflow           workflow.StatusSummary
	QueueDBPath        string
	LockFilePath       string
	PendingFiles       int
	MonitorUnavailable bool
	MonitorDetail      string
}

// New constructs a daemon with initialized dependencies.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger, wf *workflow.Manager, mon *monitor.Monitor) (*Daemon, error) {
	if cfg == nil || store == nil || logger == nil || wf == nil {
		return nil, errors.New("daemon requires config, store, logger, and workflow manager")
	}

	lockPath := filepath.Join(cfg.Paths.LogDir, "downfileorg.lock")
	return &Daemon{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		workflow: wf,
		monitor:  mon,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
		guard:    organizer.NewPassGuard(cfg),
	}, nil
}

// Start acquires the single-instance lock, rolls back items stranded by an
// unclean shutdown, launches the workflow, and begins watching.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another downfileorg instance is already running")
	}

	d.ctx, d.cancel = context.WithCancel(ctx)

	// The daemon's consumer lane moves files, so it holds the same pass
	// guard the one-shot organize command takes. Waits for any pass
	// already in flight.
	if err := d.guard.Acquire(d.ctx); err != nil {
		d.releaseOnStartFailure()
		return fmt.Errorf("acquire organize pass guard: %w", err)
	}

	if reset, err := d.store.ResetStuckProcessing(d.ctx); err != nil {
		d.logger.Warn("failed to reset stuck items", logging.Error(err))
	} else if reset > 0 {
		d.logger.Info("reset items stranded mid-stage", logging.Int64("count", reset))
	}

	if err := d.workflow.Start(d.ctx); err != nil {
		d.releaseOnStartFailure()
		return fmt.Errorf("start workflow: %w", err)
	}

	if d.monitor != nil && d.cfg.Monitor.Enabled {
		if d.cfg.Monitor.OrganizeExisting {
			if queued, err := d.monitor.ScanExisting(d.ctx); err != nil {
				d.logger.Warn("initial directory scan failed", logging.Error(err))
			} else if queued > 0 {
				d.logger.Info("queued existing files", logging.Int("count", queued))
			}
		}
		if err := d.monitor.Start(d.ctx); err != nil {
			d.workflow.Stop()
			d.releaseOnStartFailure()
			return fmt.Errorf("start monitor: %w", err)
		}
	}

	d.running.Store(true)
	d.logger.Info(
		"daemon started",
		logging.String("lock", d.lockPath),
		logging.String("watch_dir", d.cfg.Paths.WatchDir),
		logging.Bool("monitor_enabled", d.cfg.Monitor.Enabled),
	)
	return nil
}

func (d *Daemon) releaseOnStartFailure() {
	_ = d.guard.Release()
	_ = d.lock.Unlock()
	if d.cancel != nil {
		d.cancel()
	}
	d.ctx = nil
	d.cancel = nil
}

// Stop halts the monitor and workflow and releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}

	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if d.monitor != nil {
		d.monitor.Stop()
	}
	d.workflow.Stop()
	if err := d.guard.Release(); err != nil {
		d.logger.Warn("failed to release organize pass guard", logging.Error(err))
	}
	if err := d.lock.Unlock(); err != nil {
		d.logger.Warn("failed to release daemon lock", logging.Error(err))
	}
	d.ctx = nil
	d.running.Store(false)
	d.logger.Info("daemon stopped")
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	if d.store != nil {
		return d.store.Close()
	}
	return nil
}

// Status reports daemon runtime information.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		Workflow:     d.workflow.Status(ctx),
		QueueDBPath:  d.store.Path(),
		LockFilePath: d.lockPath,
	}
	if d.monitor != nil {
		status.PendingFiles = d.monitor.Pending()
		status.MonitorUnavailable, status.MonitorDetail = d.monitor.Unavailable()
	}
	return status
}

// QueueHealth returns aggregate queue diagnostics.
func (d *Daemon) QueueHealth(ctx context.Context) (queue.HealthSummary, error) {
	return d.store.Health(ctx)
}
