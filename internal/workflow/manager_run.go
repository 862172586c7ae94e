package workflow

import (
	"context"
	"errors"
	"time"

	"log/slog"

	"downfileorg/internal/logging"
)

// Start begins background processing.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	if len(m.statusOrder) == 0 {
		m.mu.Unlock()
		return errors.New("workflow stages not configured")
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	go m.runLoop(runCtx)
	return nil
}

// Stop terminates background processing and waits for completion.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
}

// RunOnce drains every ready item and returns. Used by the one-shot
// organize command; the daemon uses Start instead.
func (m *Manager) RunOnce(ctx context.Context) (int, error) {
	if len(m.statusOrder) == 0 {
		return 0, errors.New("workflow stages not configured")
	}

	logger := m.runLogger()
	processed := 0
	for {
		if err := ctx.Err(); err != nil {
			return processed, err
		}

		item, err := m.store.NextForStatuses(ctx, m.statusOrder...)
		if err != nil {
			return processed, err
		}
		if item == nil {
			return processed, nil
		}

		if err := m.processItem(ctx, logger, item); err != nil {
			if errors.Is(err, context.Canceled) {
				return processed, err
			}
			// A failure that was not recorded on the item would make this
			// loop spin on the same row.
			if !item.IsTerminal() {
				return processed, err
			}
		}
		if item.IsTerminal() {
			processed++
		}
	}
}

func (m *Manager) runLoop(ctx context.Context) {
	defer m.wg.Done()
	logger := m.runLogger()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		item, err := m.store.NextForStatuses(ctx, m.statusOrder...)
		if err != nil {
			m.handleFetchError(ctx, logger, err)
			continue
		}
		if item == nil {
			m.waitForItemOrShutdown(ctx)
			continue
		}

		if err := m.processItem(ctx, logger, item); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
		}
	}
}

func (m *Manager) runLogger() *slog.Logger {
	if m.logger == nil {
		return logging.NewNop()
	}
	return m.logger.With(logging.String("component", "workflow"))
}

func (m *Manager) handleFetchError(ctx context.Context, logger *slog.Logger, err error) {
	m.setLastError(err)
	logger.Error("failed to fetch next queue item",
		logging.Error(err),
		logging.String(logging.FieldEventType, "queue_fetch_failed"),
		logging.String(logging.FieldErrorHint, "check queue database access"),
	)
	select {
	case <-ctx.Done():
		return
	case <-time.After(m.errorRetry):
	}
}

func (m *Manager) waitForItemOrShutdown(ctx context.Context) {
	select {
	case <-ctx.Done():
		return
	case <-time.After(m.pollInterval):
	}
}
