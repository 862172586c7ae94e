package testsupport

import (
	"context"
	"testing"
	"time"

	"downfileorg/internal/classify"
	"downfileorg/internal/config"
	"downfileorg/internal/queue"
)

// MustOpenStore opens a queue.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *queue.Store {
	t.Helper()

	store, err := queue.Open(cfg)
	if err != nil {
		t.Fatalf("queue.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// EnqueueFile records a file in the queue for tests using the provided store.
func EnqueueFile(t testing.TB, store *queue.Store, path string, size int64) *queue.Item {
	t.Helper()

	record := classify.RecordFromInfo(path, nil)
	record.SizeBytes = size
	record.ModifiedAt = time.Now().UTC()
	item, _, err := store.Enqueue(context.Background(), record, "test-scan")
	if err != nil {
		t.Fatalf("store.Enqueue: %v", err)
	}
	return item
}
