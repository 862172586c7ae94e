package organizer

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"downfileorg/internal/config"
	"downfileorg/internal/services"
)

const guardRetryDelay = 100 * time.Millisecond

// PassGuard serializes mutating organize passes across processes with an
// advisory file lock. A CLI run and the daemon can then share a watch
// directory without double-moving files.
type PassGuard struct {
	path string
	lock *flock.Flock
}

// NewPassGuard builds the guard for the configured log directory.
func NewPassGuard(cfg *config.Config) *PassGuard {
	path := filepath.Join(cfg.Paths.LogDir, "organize.lock")
	return &PassGuard{path: path, lock: flock.New(path)}
}

// Path returns the lock file location.
func (g *PassGuard) Path() string { return g.path }

// Acquire blocks until the pass lock is held or the context ends.
func (g *PassGuard) Acquire(ctx context.Context) error {
	ok, err := g.lock.TryLockContext(ctx, guardRetryDelay)
	if err != nil {
		return services.Wrap(
			services.ErrTransient, "organizing", "acquire pass lock",
			fmt.Sprintf("Could not acquire organize lock %q", g.path), err)
	}
	if !ok {
		return services.Wrap(
			services.ErrTransient, "organizing", "acquire pass lock",
			fmt.Sprintf("Organize lock %q is held by another process", g.path), nil)
	}
	return nil
}

// Release drops the pass lock.
func (g *PassGuard) Release() error {
	return g.lock.Unlock()
}
