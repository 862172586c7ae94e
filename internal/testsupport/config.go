package testsupport

import (
	"path/filepath"
	"testing"

	"downfileorg/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.WatchDir = filepath.Join(base, "watch")
	cfgVal.Paths.LibraryDir = filepath.Join(base, "library")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Classifier.ModelPath = filepath.Join(base, "model.json")
	cfgVal.Monitor.StabilityWindowMS = 50
	cfgVal.Monitor.PollIntervalMS = 10
	cfgVal.Monitor.MinFileSize = 1
	cfgVal.Organizer.RetryBackoffMS = 1
	cfgVal.Workflow.QueuePollInterval = 1
	cfgVal.Workflow.ErrorRetryInterval = 1

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := cfgVal.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	return builder.cfg
}

// WithThresholdProfile sets the confidence profile on the test config.
func WithThresholdProfile(profile string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Classifier.ThresholdProfile = profile
	}
}

// WithConfidenceThreshold sets a custom confidence threshold.
func WithConfidenceThreshold(value float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Classifier.ConfidenceThreshold = value
	}
}

// WithModel writes a deterministic model artifact to the config's model
// path so classifier stages run in full (non-degraded) mode.
func WithModel() ConfigOption {
	return func(b *configBuilder) {
		WriteModel(b.t, b.cfg.Classifier.ModelPath)
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.WatchDir)
}
