package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrModelLoad marks a classifier artifact that is missing, corrupt,
	// or trained against a different feature schema. The pipeline degrades
	// to manual-review routing instead of halting.
	ErrModelLoad = errors.New("model load error")
	// ErrFeatureSchema marks a vector/model dimensionality mismatch.
	// Treated identically to ErrModelLoad: fail closed to manual review.
	ErrFeatureSchema = errors.New("feature schema error")
	// ErrMove marks a filesystem relocation that failed after retries.
	ErrMove = errors.New("move error")
	// ErrWatch marks a failure of the filesystem notification source.
	ErrWatch         = errors.New("watch error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrTransient     = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsDegraded reports whether the error means the classifier cannot be used
// and routing should fail closed to manual review rather than failing the
// item.
func IsDegraded(err error) bool {
	return errors.Is(err, ErrModelLoad) || errors.Is(err, ErrFeatureSchema)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
