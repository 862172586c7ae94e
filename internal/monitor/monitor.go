package monitor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"log/slog"

	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"

	"downfileorg/internal/classify"
	"downfileorg/internal/config"
	"downfileorg/internal/logging"
	"downfileorg/internal/queue"
	"downfileorg/internal/services"
)

// Monitor watches the configured directory and enqueues files once their
// size and mtime have been stable for the configured window. Browsers
// write downloads incrementally, so raw create events are never trusted.
type Monitor struct {
	cfg     *config.Config
	store   *queue.Store
	logger  *slog.Logger
	tracker *tracker

	mu             sync.Mutex
	watcher        *fsnotify.Watcher
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	running        bool
	terminalReason string
	scanID         string
}

// New constructs a monitor for the configured watch directory.
func New(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Monitor {
	monitorLogger := logger
	if monitorLogger != nil {
		monitorLogger = monitorLogger.With(logging.String("component", "monitor"))
	}
	window := time.Duration(cfg.Monitor.StabilityWindowMS) * time.Millisecond
	return &Monitor{
		cfg:     cfg,
		store:   store,
		logger:  monitorLogger,
		tracker: newTracker(window),
		scanID:  uuid.NewString(),
	}
}

// ScanID identifies the enqueue batch this monitor instance produces.
func (m *Monitor) ScanID() string { return m.scanID }

// Start begins watching. It fails when the watch directory cannot be
// observed at all; later watch errors trigger bounded restarts instead.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return errors.New("monitor already running")
	}

	watcher, err := m.openWatcher()
	if err != nil {
		return err
	}
	m.watcher = watcher

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.terminalReason = ""

	m.wg.Add(2)
	go m.eventLoop(runCtx)
	go m.stabilityLoop(runCtx)

	m.logger.Info(
		"monitor started",
		logging.String("watch_dir", m.cfg.Paths.WatchDir),
		logging.Int("stability_window_ms", m.cfg.Monitor.StabilityWindowMS),
		logging.String("scan_id", m.scanID),
	)
	return nil
}

// Stop halts watching and waits for in-flight dispatches to settle.
func (m *Monitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.running = false
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	m.wg.Wait()

	m.mu.Lock()
	if m.watcher != nil {
		_ = m.watcher.Close()
		m.watcher = nil
	}
	m.mu.Unlock()

	m.logger.Info("monitor stopped")
}

// Pending reports how many files are awaiting stability.
func (m *Monitor) Pending() int { return m.tracker.Pending() }

// Unavailable reports whether watching has terminally failed. Once set,
// only a restart of the process resumes monitoring; one-shot organize
// passes keep working.
func (m *Monitor) Unavailable() (bool, string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.terminalReason != "", m.terminalReason
}

func (m *Monitor) markUnavailable(reason string) {
	m.mu.Lock()
	m.terminalReason = reason
	m.mu.Unlock()
	m.logger.Error("monitoring unavailable", logging.String("reason", reason))
}

func (m *Monitor) openWatcher() (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, services.Wrap(services.ErrWatch, "monitor", "create watcher", "Filesystem notifications unavailable", err)
	}
	if err := watcher.Add(m.cfg.Paths.WatchDir); err != nil {
		_ = watcher.Close()
		return nil, services.Wrap(
			services.ErrWatch, "monitor", "watch directory",
			"Cannot watch "+m.cfg.Paths.WatchDir+"; check that it exists and is readable", err)
	}
	return watcher, nil
}

func (m *Monitor) eventLoop(ctx context.Context) {
	defer m.wg.Done()

	restarts := 0
	for {
		m.mu.Lock()
		watcher := m.watcher
		m.mu.Unlock()
		if watcher == nil {
			return
		}

		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				if !m.restart(ctx, &restarts) {
					m.terminate(ctx, restarts)
					return
				}
				continue
			}
			m.handleEvent(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				if !m.restart(ctx, &restarts) {
					m.terminate(ctx, restarts)
					return
				}
				continue
			}
			m.logger.Warn("watch error", logging.Error(err))
		}
	}
}

const restartRetryDelay = 500 * time.Millisecond

// restart replaces a dead watcher, retrying failed reopens until the
// configured attempt budget is spent.
func (m *Monitor) restart(ctx context.Context, restarts *int) bool {
	for {
		if ctx.Err() != nil {
			return false
		}
		if *restarts >= m.cfg.Monitor.RestartAttempts {
			return false
		}
		*restarts++

		watcher, err := m.openWatcher()
		if err != nil {
			m.logger.Error("watcher restart failed", logging.Int("attempt", *restarts), logging.Error(err))
			select {
			case <-ctx.Done():
				return false
			case <-time.After(restartRetryDelay):
			}
			continue
		}

		m.mu.Lock()
		if m.watcher != nil {
			_ = m.watcher.Close()
		}
		m.watcher = watcher
		m.mu.Unlock()

		m.logger.Warn("watcher restarted", logging.Int("attempt", *restarts))
		return true
	}
}

// terminate records the dead-watcher state unless the loop is exiting on a
// normal shutdown.
func (m *Monitor) terminate(ctx context.Context, restarts int) {
	if ctx.Err() != nil {
		return
	}
	m.markUnavailable(fmt.Sprintf("watcher died and %d restart attempts were spent", restarts))
}

func (m *Monitor) handleEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		m.tracker.Forget(path)
		return
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}
	if reason := IgnoreReason(path, info.Size(), m.cfg.Monitor.MinFileSize); reason != "" {
		m.logger.Debug("ignoring file", logging.String("path", path), logging.String("reason", reason))
		return
	}

	m.tracker.Observe(path, info.Size(), info.ModTime(), time.Now())
}

func (m *Monitor) stabilityLoop(ctx context.Context) {
	defer m.wg.Done()

	interval := time.Duration(m.cfg.Monitor.PollIntervalMS) * time.Millisecond
	if interval <= 0 {
		interval = 500 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.refreshTracked(now)
			for _, path := range m.tracker.Steady(now) {
				m.dispatch(ctx, path)
			}
		}
	}
}

// refreshTracked re-stats tracked files so growth between events still
// resets the stability clock.
func (m *Monitor) refreshTracked(now time.Time) {
	m.tracker.mu.Lock()
	paths := make([]string, 0, len(m.tracker.files))
	for path := range m.tracker.files {
		paths = append(paths, path)
	}
	m.tracker.mu.Unlock()

	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			m.tracker.Forget(path)
			continue
		}
		m.tracker.Observe(path, info.Size(), info.ModTime(), now)
	}
}

func (m *Monitor) dispatch(ctx context.Context, path string) {
	record, err := classify.NewFileRecord(path)
	if err != nil {
		m.logger.Warn("stable file vanished before enqueue", logging.String("path", path))
		return
	}
	if reason := IgnoreReason(path, record.SizeBytes, m.cfg.Monitor.MinFileSize); reason != "" {
		m.logger.Debug("ignoring stable file", logging.String("path", path), logging.String("reason", reason))
		return
	}

	item, created, err := m.store.Enqueue(ctx, record, m.scanID)
	if err != nil {
		m.logger.Error("enqueue failed", logging.String("path", path), logging.Error(err))
		return
	}
	if !created {
		m.logger.Debug("file already queued", logging.String("path", path), logging.Int64("item_id", item.ID))
		return
	}
	m.logger.Info(
		"file queued",
		logging.String("path", path),
		logging.Int64("item_id", item.ID),
		logging.Int64("size_bytes", record.SizeBytes),
	)
}

// ScanExisting enqueues qualifying files already present in the watch
// directory. Used at startup when organize_existing is enabled and by the
// one-shot organize command.
func (m *Monitor) ScanExisting(ctx context.Context) (int, error) {
	entries, err := os.ReadDir(m.cfg.Paths.WatchDir)
	if err != nil {
		return 0, services.Wrap(
			services.ErrWatch, "monitor", "scan directory",
			"Cannot read "+m.cfg.Paths.WatchDir, err)
	}

	queued := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := filepath.Join(m.cfg.Paths.WatchDir, entry.Name())
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if reason := IgnoreReason(path, info.Size(), m.cfg.Monitor.MinFileSize); reason != "" {
			continue
		}

		record := classify.RecordFromInfo(path, info)
		_, created, err := m.store.Enqueue(ctx, record, m.scanID)
		if err != nil {
			return queued, err
		}
		if created {
			queued++
		}
	}
	return queued, nil
}
