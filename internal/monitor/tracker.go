package monitor

import (
	"sync"
	"time"
)

// observation is the last seen size and mtime for a candidate file.
type observation struct {
	size      int64
	modTime   time.Time
	steadyFor time.Time
}

// tracker holds candidate files between the event that surfaced them and
// the stability check that releases them. Each path is released at most
// once per tracking cycle.
type tracker struct {
	mu     sync.Mutex
	files  map[string]*observation
	window time.Duration
}

func newTracker(window time.Duration) *tracker {
	return &tracker{
		files:  make(map[string]*observation),
		window: window,
	}
}

// Observe records the latest size and mtime for path. A change resets the
// stability clock.
func (t *tracker) Observe(path string, size int64, modTime time.Time, now time.Time) {
	t.mu.Lock()
	defer t.mu.Unlock()

	obs, ok := t.files[path]
	if !ok {
		t.files[path] = &observation{size: size, modTime: modTime, steadyFor: now}
		return
	}
	if obs.size != size || !obs.modTime.Equal(modTime) {
		obs.size = size
		obs.modTime = modTime
		obs.steadyFor = now
	}
}

// Forget drops a path, typically after it was removed or renamed away.
func (t *tracker) Forget(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.files, path)
}

// Steady returns the paths whose observations have not changed for the
// stability window and removes them from tracking.
func (t *tracker) Steady(now time.Time) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var ready []string
	for path, obs := range t.files {
		if now.Sub(obs.steadyFor) >= t.window {
			ready = append(ready, path)
			delete(t.files, path)
		}
	}
	return ready
}

// Pending returns the number of files awaiting stability.
func (t *tracker) Pending() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.files)
}
