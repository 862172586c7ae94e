package organizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"log/slog"

	"downfileorg/internal/classify"
	"downfileorg/internal/config"
	"downfileorg/internal/fileutil"
	"downfileorg/internal/logging"
	"downfileorg/internal/queue"
	"downfileorg/internal/services"
	"downfileorg/internal/stage"
)

// Organizer moves classified files into their category folder under the
// library root. Low-confidence and degraded items land in the manual
// review folder instead; nothing is ever deleted or overwritten.
type Organizer struct {
	store  *queue.Store
	cfg    *config.Config
	logger *slog.Logger
}

// NewOrganizer constructs the organize stage handler.
func NewOrganizer(cfg *config.Config, store *queue.Store, logger *slog.Logger) *Organizer {
	stageLogger := logger
	if stageLogger != nil {
		stageLogger = stageLogger.With(logging.String("component", "organizer"))
	}
	return &Organizer{store: store, cfg: cfg, logger: stageLogger}
}

func (o *Organizer) Prepare(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, o.logger)
	item.ErrorMessage = ""
	logger.Info(
		"starting organization",
		logging.String("source_path", item.SourcePath),
		logging.String("folder", o.destinationFolder(item)),
	)
	return nil
}

func (o *Organizer) Execute(ctx context.Context, item *queue.Item) error {
	logger := logging.WithContext(ctx, o.logger)

	if strings.TrimSpace(item.SourcePath) == "" {
		return services.Wrap(
			services.ErrValidation, "organizing", "validate inputs",
			"Queue item has no source path; reclassify the item", nil)
	}

	if _, err := os.Stat(item.SourcePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("source vanished before move; skipping", logging.String("source_path", item.SourcePath))
			item.Outcome = queue.OutcomeSkipped
			item.Status = queue.StatusCompleted
			return nil
		}
		return services.Wrap(services.ErrMove, "organizing", "stat source", "Source file unreadable", err)
	}

	destDir := filepath.Join(o.cfg.Paths.LibraryDir, o.destinationFolder(item))
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return o.fail(item, services.Wrap(
			services.ErrMove, "organizing", "ensure destination",
			fmt.Sprintf("Cannot create destination folder %q; check library permissions", destDir), err))
	}

	finalPath, attempts, err := o.moveWithRetries(ctx, item, destDir)
	item.Attempts += attempts
	if err != nil {
		return o.fail(item, err)
	}

	item.FinalPath = finalPath
	item.Outcome = queue.OutcomeMoved
	item.Status = queue.StatusCompleted
	logger.Info(
		"file organized",
		logging.String("final_path", finalPath),
		logging.Int("attempts", attempts),
		logging.Bool("needs_review", item.NeedsReview),
	)
	return nil
}

// moveWithRetries allocates a collision-free destination and moves the file,
// retrying transient failures with a fixed backoff. The collision probe is
// re-run on every attempt in case another pass claimed the slot.
func (o *Organizer) moveWithRetries(ctx context.Context, item *queue.Item, destDir string) (string, int, error) {
	logger := logging.WithContext(ctx, o.logger)

	maxAttempts := o.cfg.Organizer.MoveRetries + 1
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	backoff := time.Duration(o.cfg.Organizer.RetryBackoffMS) * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", attempt - 1, services.Wrap(services.ErrTransient, "organizing", "move file", "Organization interrupted", err)
		}

		target, err := nextAvailablePath(destDir, filepath.Base(item.SourcePath))
		if err != nil {
			return "", attempt, services.Wrap(services.ErrMove, "organizing", "allocate destination", "Unable to allocate a collision-free destination", err)
		}

		if err := fileutil.MoveFile(item.SourcePath, target); err != nil {
			lastErr = err
			logger.Warn(
				"move attempt failed",
				logging.Int("attempt", attempt),
				logging.Int("max_attempts", maxAttempts),
				logging.Error(err),
			)
			if attempt < maxAttempts && backoff > 0 {
				select {
				case <-ctx.Done():
					return "", attempt, services.Wrap(services.ErrTransient, "organizing", "move file", "Organization interrupted", ctx.Err())
				case <-time.After(backoff):
				}
			}
			continue
		}
		return target, attempt, nil
	}

	if maxAttempts > 1 {
		item.Outcome = queue.OutcomeRetriedThenFailed
	}
	return "", maxAttempts, services.Wrap(
		services.ErrMove, "organizing", "move file",
		fmt.Sprintf("Move failed after %d attempts", maxAttempts), lastErr)
}

// nextAvailablePath probes destDir for a free name, appending " (N)" before
// the extension on collision: report.pdf, report (1).pdf, report (2).pdf.
func nextAvailablePath(destDir, baseName string) (string, error) {
	const maxProbes = 10000

	ext := filepath.Ext(baseName)
	stem := strings.TrimSuffix(baseName, ext)

	for n := 0; n <= maxProbes; n++ {
		name := baseName
		if n > 0 {
			name = fmt.Sprintf("%s (%d)%s", stem, n, ext)
		}
		candidate := filepath.Join(destDir, name)
		if _, err := os.Stat(candidate); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return candidate, nil
			}
			return "", err
		}
	}
	return "", fmt.Errorf("exhausted collision suffixes in %s", destDir)
}

func (o *Organizer) destinationFolder(item *queue.Item) string {
	if item.NeedsReview || item.Category == "" {
		return classify.ManualReviewFolder
	}
	if cat, ok := classify.ParseCategory(item.Category); ok {
		return cat.FolderName()
	}
	return classify.ManualReviewFolder
}

func (o *Organizer) fail(item *queue.Item, err error) error {
	if item.Outcome == "" {
		item.Outcome = queue.OutcomeFailed
	}
	return err
}

// HealthCheck verifies the library root exists or can be created.
func (o *Organizer) HealthCheck(ctx context.Context) stage.Health {
	const name = "organizer"
	if o.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	libraryDir := strings.TrimSpace(o.cfg.Paths.LibraryDir)
	if libraryDir == "" {
		return stage.Unhealthy(name, "library directory not configured")
	}
	if err := os.MkdirAll(libraryDir, 0o755); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("library directory unavailable: %v", err))
	}
	return stage.Healthy(name)
}
