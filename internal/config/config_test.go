package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"downfileorg/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected missing config to be reported as absent")
	}
	if cfg.Paths.WatchDir == "" || cfg.Paths.LibraryDir == "" {
		t.Fatalf("expected defaulted paths, got %#v", cfg.Paths)
	}
	if cfg.Threshold() != 0.5 {
		t.Fatalf("expected default threshold 0.5, got %v", cfg.Threshold())
	}
}

func TestLoadParsesAndExpandsPaths(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
watch_dir = "` + dir + `/downloads"
library_dir = "` + dir + `/library"
log_dir = "` + dir + `/logs"

[classifier]
threshold_profile = "Conservative"

[monitor]
enabled = true
stability_window_ms = 1500
poll_interval_ms = 250
min_file_size = 2048
restart_attempts = 5
organize_existing = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved == "" {
		t.Fatalf("expected existing config at %s", path)
	}
	if cfg.Paths.WatchDir != filepath.Join(dir, "downloads") {
		t.Fatalf("unexpected watch dir %s", cfg.Paths.WatchDir)
	}
	if cfg.Classifier.ThresholdProfile != "conservative" {
		t.Fatalf("expected normalized profile, got %q", cfg.Classifier.ThresholdProfile)
	}
	if cfg.Threshold() != 0.8 {
		t.Fatalf("expected conservative threshold, got %v", cfg.Threshold())
	}
	if !cfg.Monitor.Enabled || cfg.Monitor.StabilityWindowMS != 1500 {
		t.Fatalf("unexpected monitor config: %#v", cfg.Monitor)
	}
}

func TestCustomThresholdOverridesProfile(t *testing.T) {
	cfg := config.Default()
	cfg.Classifier.ThresholdProfile = "conservative"
	cfg.Classifier.ConfidenceThreshold = 0.42
	if cfg.Threshold() != 0.42 {
		t.Fatalf("expected custom threshold to win, got %v", cfg.Threshold())
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"missing watch dir", func(c *config.Config) { c.Paths.WatchDir = "" }},
		{"missing library dir", func(c *config.Config) { c.Paths.LibraryDir = "" }},
		{"threshold above one", func(c *config.Config) { c.Classifier.ConfidenceThreshold = 1.5 }},
		{"negative threshold", func(c *config.Config) { c.Classifier.ConfidenceThreshold = -0.1 }},
		{"unknown profile", func(c *config.Config) { c.Classifier.ThresholdProfile = "bold" }},
		{"zero stability window", func(c *config.Config) { c.Monitor.StabilityWindowMS = 0 }},
		{"negative retries", func(c *config.Config) { c.Organizer.MoveRetries = -1 }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "yaml" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidateAcceptsDefaults(t *testing.T) {
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config failed to load: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config failed validation: %v", err)
	}
}
