package queue_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"downfileorg/internal/classify"
	"downfileorg/internal/queue"
	"downfileorg/internal/testsupport"
)

func newRecord(dir, name string, size int64) classify.FileRecord {
	record := classify.RecordFromInfo(filepath.Join(dir, name), nil)
	record.SizeBytes = size
	record.ModifiedAt = time.Now().UTC()
	return record
}

func TestOpenCreatesSchemaAndEnqueues(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, created, err := store.Enqueue(ctx, newRecord(cfg.Paths.WatchDir, "report.pdf", 2048), "scan-1")
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if !created {
		t.Fatal("expected first enqueue to create an item")
	}
	if item.ID == 0 {
		t.Fatal("expected item ID to be assigned")
	}
	if item.Status != queue.StatusPending {
		t.Fatalf("expected pending status, got %s", item.Status)
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched == nil || fetched.Name != "report" || fetched.Extension != ".pdf" {
		t.Fatalf("unexpected fetched item: %#v", fetched)
	}
	if fetched.ScanID != "scan-1" {
		t.Fatalf("expected scan ID preserved, got %q", fetched.ScanID)
	}
}

func TestEnqueueIdempotentPerLivePath(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	record := newRecord(cfg.Paths.WatchDir, "invoice.pdf", 512)

	first, created, err := store.Enqueue(ctx, record, "scan-1")
	if err != nil || !created {
		t.Fatalf("first enqueue: created=%v err=%v", created, err)
	}

	second, created, err := store.Enqueue(ctx, record, "scan-2")
	if err != nil {
		t.Fatalf("second enqueue: %v", err)
	}
	if created {
		t.Fatal("expected second enqueue to reuse the live item")
	}
	if second.ID != first.ID {
		t.Fatalf("expected item %d, got %d", first.ID, second.ID)
	}

	first.Status = queue.StatusCompleted
	first.Outcome = queue.OutcomeMoved
	if err := store.Update(ctx, first); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	third, created, err := store.Enqueue(ctx, record, "scan-3")
	if err != nil {
		t.Fatalf("third enqueue: %v", err)
	}
	if !created || third.ID == first.ID {
		t.Fatalf("expected fresh item after completion, got created=%v id=%d", created, third.ID)
	}
}

func TestUpdateRoundTripsClassification(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, _, err := store.Enqueue(ctx, newRecord(cfg.Paths.WatchDir, "song.mp3", 4096), "scan-1")
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	item.Status = queue.StatusClassified
	item.Category = string(classify.CategoryEntertainment)
	item.Confidence = 0.87
	item.ProbabilitiesJSON = `{"Entertainment":0.87}`
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Status != queue.StatusClassified {
		t.Fatalf("expected classified, got %s", fetched.Status)
	}
	if fetched.Category != string(classify.CategoryEntertainment) || fetched.Confidence != 0.87 {
		t.Fatalf("classification not persisted: %#v", fetched)
	}
}

func TestNextForStatusesReturnsOldestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	first, _, err := store.Enqueue(ctx, newRecord(cfg.Paths.WatchDir, "a.txt", 10), "scan-1")
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	if _, _, err := store.Enqueue(ctx, newRecord(cfg.Paths.WatchDir, "b.txt", 10), "scan-1"); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	next, err := store.NextForStatuses(ctx, queue.StatusPending)
	if err != nil {
		t.Fatalf("NextForStatuses failed: %v", err)
	}
	if next == nil || next.ID != first.ID {
		t.Fatalf("expected item %d, got %#v", first.ID, next)
	}

	none, err := store.NextForStatuses(ctx, queue.StatusOrganizing)
	if err != nil {
		t.Fatalf("NextForStatuses failed: %v", err)
	}
	if none != nil {
		t.Fatalf("expected no organizing items, got %#v", none)
	}
}

func TestResetStuckProcessing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	cases := []struct {
		name  string
		stuck queue.Status
		want  queue.Status
	}{
		{"classifying rolls back to pending", queue.StatusClassifying, queue.StatusPending},
		{"organizing rolls back to classified", queue.StatusOrganizing, queue.StatusClassified},
	}

	ids := make([]int64, len(cases))
	for i, tc := range cases {
		item, _, err := store.Enqueue(ctx, newRecord(cfg.Paths.WatchDir, tc.name+".dat", 10), "scan-1")
		if err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
		item.Status = tc.stuck
		if err := store.Update(ctx, item); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		ids[i] = item.ID
	}

	n, err := store.ResetStuckProcessing(ctx)
	if err != nil {
		t.Fatalf("ResetStuckProcessing failed: %v", err)
	}
	if n != int64(len(cases)) {
		t.Fatalf("expected %d items reset, got %d", len(cases), n)
	}

	for i, tc := range cases {
		fetched, err := store.GetByID(ctx, ids[i])
		if err != nil {
			t.Fatalf("GetByID failed: %v", err)
		}
		if fetched.Status != tc.want {
			t.Fatalf("%s: expected %s, got %s", tc.name, tc.want, fetched.Status)
		}
	}
}

func TestRetryFailedClearsErrorState(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	item, _, err := store.Enqueue(ctx, newRecord(cfg.Paths.WatchDir, "broken.bin", 10), "scan-1")
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	item.SetFailed("destination unwritable")
	item.Attempts = 3
	if err := store.Update(ctx, item); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	n, err := store.RetryFailed(ctx)
	if err != nil {
		t.Fatalf("RetryFailed failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 item retried, got %d", n)
	}

	fetched, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if fetched.Status != queue.StatusPending {
		t.Fatalf("expected pending, got %s", fetched.Status)
	}
	if fetched.ErrorMessage != "" || fetched.Outcome != "" {
		t.Fatalf("expected cleared error state, got %#v", fetched)
	}
	if fetched.Attempts != 3 {
		t.Fatalf("expected attempts preserved, got %d", fetched.Attempts)
	}
}

func TestHealthCountsByLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	statuses := []queue.Status{
		queue.StatusPending,
		queue.StatusClassifying,
		queue.StatusCompleted,
		queue.StatusFailed,
	}
	for i, status := range statuses {
		item, _, err := store.Enqueue(ctx, newRecord(cfg.Paths.WatchDir, string(rune('a'+i))+".txt", 10), "scan-1")
		if err != nil {
			t.Fatalf("Enqueue failed: %v", err)
		}
		item.Status = status
		if err := store.Update(ctx, item); err != nil {
			t.Fatalf("Update failed: %v", err)
		}
	}

	health, err := store.Health(ctx)
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if health.Total != 4 || health.Pending != 1 || health.Processing != 1 || health.Completed != 1 || health.Failed != 1 {
		t.Fatalf("unexpected health summary: %#v", health)
	}
}

func TestClearCompletedLeavesOthers(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	ctx := context.Background()
	done, _, err := store.Enqueue(ctx, newRecord(cfg.Paths.WatchDir, "done.txt", 10), "scan-1")
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}
	done.Status = queue.StatusCompleted
	if err := store.Update(ctx, done); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	pending, _, err := store.Enqueue(ctx, newRecord(cfg.Paths.WatchDir, "pending.txt", 10), "scan-1")
	if err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	n, err := store.ClearCompleted(ctx)
	if err != nil {
		t.Fatalf("ClearCompleted failed: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 item cleared, got %d", n)
	}

	remaining, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(remaining) != 1 || remaining[0].ID != pending.ID {
		t.Fatalf("unexpected remaining items: %#v", remaining)
	}
}
