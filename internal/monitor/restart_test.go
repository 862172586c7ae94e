package monitor

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"downfileorg/internal/logging"
	"downfileorg/internal/testsupport"
)

func killWatcher(t *testing.T, m *Monitor) {
	t.Helper()
	m.mu.Lock()
	watcher := m.watcher
	m.mu.Unlock()
	if watcher == nil {
		t.Fatal("monitor has no watcher to kill")
	}
	if err := watcher.Close(); err != nil {
		t.Fatalf("close watcher: %v", err)
	}
}

func currentWatcher(m *Monitor) *fsnotify.Watcher {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.watcher
}

func TestWatcherDeathBecomesTerminalWhenBudgetSpent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Monitor.RestartAttempts = 0
	store := testsupport.MustOpenStore(t, cfg)
	m := New(cfg, store, logging.NewNop())

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer m.Stop()

	killWatcher(t, m)

	deadline := time.Now().Add(5 * time.Second)
	for {
		if down, reason := m.Unavailable(); down {
			if reason == "" {
				t.Fatal("expected a reason with the unavailable state")
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("monitor never reported itself unavailable")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWatcherDeathRecoversWithinBudget(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	cfg.Monitor.RestartAttempts = 3
	store := testsupport.MustOpenStore(t, cfg)
	m := New(cfg, store, logging.NewNop())

	if err := m.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer m.Stop()

	dead := currentWatcher(m)
	killWatcher(t, m)

	deadline := time.Now().Add(5 * time.Second)
	for currentWatcher(m) == dead {
		if time.Now().After(deadline) {
			t.Fatal("watcher was never replaced")
		}
		time.Sleep(10 * time.Millisecond)
	}

	testsupport.WriteFile(t, filepath.Join(cfg.Paths.WatchDir, "report.pdf"), 2048)
	for {
		items, err := store.List(context.Background())
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(items) == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("restarted watcher never enqueued the new file")
		}
		time.Sleep(20 * time.Millisecond)
	}

	if down, reason := m.Unavailable(); down {
		t.Fatalf("monitor unexpectedly terminal: %s", reason)
	}
}
