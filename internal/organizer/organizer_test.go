package organizer_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"downfileorg/internal/classify"
	"downfileorg/internal/logging"
	"downfileorg/internal/organizer"
	"downfileorg/internal/queue"
	"downfileorg/internal/testsupport"
)

func TestExecuteMovesIntoCategoryFolder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	org := organizer.NewOrganizer(cfg, store, logging.NewNop())

	src := filepath.Join(cfg.Paths.WatchDir, "invoice.pdf")
	testsupport.WriteFile(t, src, 256)

	item := testsupport.EnqueueFile(t, store, src, 256)
	item.Status = queue.StatusClassified
	item.Category = string(classify.CategoryFinance)
	item.Confidence = 0.9

	ctx := context.Background()
	if err := org.Prepare(ctx, item); err != nil {
		t.Fatalf("Prepare failed: %v", err)
	}
	if err := org.Execute(ctx, item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	want := filepath.Join(cfg.Paths.LibraryDir, "Finance", "invoice.pdf")
	if item.FinalPath != want {
		t.Fatalf("expected %s, got %s", want, item.FinalPath)
	}
	if item.Outcome != queue.OutcomeMoved || item.Status != queue.StatusCompleted {
		t.Fatalf("unexpected terminal state: %#v", item)
	}
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected file at destination: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("expected source removed, stat err: %v", err)
	}
}

func TestExecuteAppendsSuffixOnCollision(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	org := organizer.NewOrganizer(cfg, store, logging.NewNop())

	ctx := context.Background()
	var finals []string
	for i := 0; i < 3; i++ {
		src := filepath.Join(cfg.Paths.WatchDir, "invoice.pdf")
		testsupport.WriteFile(t, src, 128)

		item := &queue.Item{
			SourcePath: src,
			Name:       "invoice",
			Extension:  ".pdf",
			Status:     queue.StatusClassified,
			Category:   string(classify.CategoryFinance),
		}
		if err := org.Execute(ctx, item); err != nil {
			t.Fatalf("move %d failed: %v", i, err)
		}
		finals = append(finals, item.FinalPath)
	}

	want := []string{"invoice.pdf", "invoice (1).pdf", "invoice (2).pdf"}
	for i, name := range want {
		expected := filepath.Join(cfg.Paths.LibraryDir, "Finance", name)
		if finals[i] != expected {
			t.Fatalf("move %d: expected %s, got %s", i, expected, finals[i])
		}
		if _, err := os.Stat(expected); err != nil {
			t.Fatalf("move %d: destination missing: %v", i, err)
		}
	}
}

func TestExecuteRoutesReviewItemsToReviewFolder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	org := organizer.NewOrganizer(cfg, store, logging.NewNop())

	src := filepath.Join(cfg.Paths.WatchDir, "mystery_file.xyz")
	testsupport.WriteFile(t, src, 64)

	item := &queue.Item{
		SourcePath:   src,
		Name:         "mystery_file",
		Extension:    ".xyz",
		Status:       queue.StatusClassified,
		NeedsReview:  true,
		ReviewReason: "confidence 0.125 below threshold 0.50",
	}
	if err := org.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	want := filepath.Join(cfg.Paths.LibraryDir, classify.ManualReviewFolder, "mystery_file.xyz")
	if item.FinalPath != want {
		t.Fatalf("expected %s, got %s", want, item.FinalPath)
	}
}

func TestExecuteSkipsVanishedSource(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	org := organizer.NewOrganizer(cfg, store, logging.NewNop())

	item := &queue.Item{
		SourcePath: filepath.Join(cfg.Paths.WatchDir, "gone.txt"),
		Name:       "gone",
		Extension:  ".txt",
		Status:     queue.StatusClassified,
		Category:   string(classify.CategoryOthers),
	}
	if err := org.Execute(context.Background(), item); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if item.Outcome != queue.OutcomeSkipped || item.Status != queue.StatusCompleted {
		t.Fatalf("expected skipped completion, got %#v", item)
	}
	if item.FinalPath != "" {
		t.Fatalf("expected no final path for a skip, got %s", item.FinalPath)
	}
}

func TestExecuteFailsWhenDestinationUnwritable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not bind for root")
	}

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	org := organizer.NewOrganizer(cfg, store, logging.NewNop())

	src := filepath.Join(cfg.Paths.WatchDir, "doc.txt")
	testsupport.WriteFile(t, src, 32)

	if err := os.Chmod(cfg.Paths.LibraryDir, 0o555); err != nil {
		t.Fatalf("chmod library: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chmod(cfg.Paths.LibraryDir, 0o755)
	})

	item := &queue.Item{
		SourcePath: src,
		Name:       "doc",
		Extension:  ".txt",
		Status:     queue.StatusClassified,
		Category:   string(classify.CategoryOthers),
	}
	if err := org.Execute(context.Background(), item); err == nil {
		t.Fatal("expected move failure into unwritable library")
	}
	if item.Outcome == "" {
		t.Fatal("expected a failure outcome to be recorded")
	}
	if _, err := os.Stat(src); err != nil {
		t.Fatalf("expected source left in place after failure: %v", err)
	}
}

func TestPassGuardSerializesPasses(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	guard := organizer.NewPassGuard(cfg)

	ctx := context.Background()
	if err := guard.Acquire(ctx); err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	if err := guard.Release(); err != nil {
		t.Fatalf("Release failed: %v", err)
	}
	if err := guard.Acquire(ctx); err != nil {
		t.Fatalf("reacquire failed: %v", err)
	}
	if err := guard.Release(); err != nil {
		t.Fatalf("release failed: %v", err)
	}
}

func TestHealthCheckRequiresLibraryDir(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	org := organizer.NewOrganizer(cfg, store, logging.NewNop())
	if health := org.HealthCheck(context.Background()); !health.Ready {
		t.Fatalf("expected healthy organizer, got %s", health.Detail)
	}

	cfg.Paths.LibraryDir = ""
	bad := organizer.NewOrganizer(cfg, store, logging.NewNop())
	if health := bad.HealthCheck(context.Background()); health.Ready {
		t.Fatal("expected unhealthy organizer without library dir")
	}
}
