package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"downfileorg/internal/config"
	"downfileorg/internal/logging"
	"downfileorg/internal/services"
)

func TestJSONLoggerEmitsStandardKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("file queued", logging.String("path", "/watch/a.pdf"), logging.Int64("item_id", 7))

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(raw, &entry); err != nil {
		t.Fatalf("log line is not JSON: %v (%q)", err, raw)
	}
	for _, key := range []string{"ts", "level", "msg"} {
		if _, ok := entry[key]; !ok {
			t.Fatalf("missing %s key in %v", key, entry)
		}
	}
	if entry["msg"] != "file queued" {
		t.Fatalf("unexpected msg %v", entry["msg"])
	}
	if entry["path"] != "/watch/a.pdf" {
		t.Fatalf("unexpected path attr %v", entry["path"])
	}
}

func TestDebugSuppressedAtInfoLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "info",
		Format:      "json",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Debug("hidden")
	logger.Info("visible")

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if string(raw) == "" {
		t.Fatal("expected info output")
	}
	var entry map[string]any
	if err := json.Unmarshal(raw, &entry); err != nil {
		t.Fatalf("expected exactly one JSON line, got %q", raw)
	}
	if entry["msg"] != "visible" {
		t.Fatalf("expected only the info entry, got %v", entry["msg"])
	}
}

func TestWithContextAddsItemFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Format:      "json",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := services.WithItemID(context.Background(), 99)
	ctx = services.WithStage(ctx, "organize")
	logging.WithContext(ctx, logger).Info("stage started")

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry map[string]any
	if err := json.Unmarshal(raw, &entry); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if entry[logging.FieldItemID] != float64(99) {
		t.Fatalf("expected item_id 99, got %v", entry[logging.FieldItemID])
	}
	if entry[logging.FieldStage] != "organize" {
		t.Fatalf("expected stage organize, got %v", entry[logging.FieldStage])
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Logging.Format = "json"

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig failed: %v", err)
	}
	logger.Info("hello")

	raw, err := os.ReadFile(filepath.Join(cfg.Paths.LogDir, "downfileorg.log"))
	if err != nil {
		t.Fatalf("expected teed log file: %v", err)
	}
	if len(raw) == 0 {
		t.Fatal("expected log content")
	}
}

func TestRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
