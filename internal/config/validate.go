package config

import (
	"fmt"
	"strings"

	"downfileorg/internal/routing"
)

// Validate checks configuration invariants after normalization.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Paths.WatchDir) == "" {
		return fmt.Errorf("paths.watch_dir is required")
	}
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		return fmt.Errorf("paths.library_dir is required")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return fmt.Errorf("paths.log_dir is required")
	}

	if c.Classifier.ConfidenceThreshold != 0 {
		if c.Classifier.ConfidenceThreshold < 0 || c.Classifier.ConfidenceThreshold > 1 {
			return fmt.Errorf("classifier.confidence_threshold must be in [0, 1], got %v", c.Classifier.ConfidenceThreshold)
		}
	} else if c.Classifier.ThresholdProfile != "" {
		if _, ok := routing.ProfileThreshold(c.Classifier.ThresholdProfile); !ok {
			return fmt.Errorf(
				"classifier.threshold_profile %q is not recognized (known profiles: %s)",
				c.Classifier.ThresholdProfile,
				strings.Join(routing.Profiles(), ", "),
			)
		}
	}

	if c.Monitor.StabilityWindowMS <= 0 {
		return fmt.Errorf("monitor.stability_window_ms must be positive")
	}
	if c.Monitor.PollIntervalMS <= 0 {
		return fmt.Errorf("monitor.poll_interval_ms must be positive")
	}
	if c.Monitor.MinFileSize < 0 {
		return fmt.Errorf("monitor.min_file_size must not be negative")
	}
	if c.Monitor.RestartAttempts < 0 {
		return fmt.Errorf("monitor.restart_attempts must not be negative")
	}

	if c.Organizer.MoveRetries < 0 {
		return fmt.Errorf("organizer.move_retries must not be negative")
	}
	if c.Organizer.RetryBackoffMS < 0 {
		return fmt.Errorf("organizer.retry_backoff_ms must not be negative")
	}

	if c.Workflow.QueuePollInterval <= 0 {
		return fmt.Errorf("workflow.queue_poll_interval must be positive")
	}
	if c.Workflow.ErrorRetryInterval <= 0 {
		return fmt.Errorf("workflow.error_retry_interval must be positive")
	}

	switch c.Logging.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}

	return nil
}

// Threshold resolves the effective confidence threshold: a non-zero custom
// value wins, then the named profile, then the confident default.
func (c *Config) Threshold() float64 {
	if c.Classifier.ConfidenceThreshold != 0 {
		return c.Classifier.ConfidenceThreshold
	}
	if threshold, ok := routing.ProfileThreshold(c.Classifier.ThresholdProfile); ok {
		return threshold
	}
	return routing.DefaultThreshold
}
