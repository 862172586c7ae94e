// Package routing converts classification results into actionable
// destinations under a confidence policy. The policy is stateless and
// total: every result produces exactly one decision.
package routing

import (
	"fmt"
	"strings"

	"downfileorg/internal/classify"
	"downfileorg/internal/forest"
)

// Named threshold profiles. Callers pick a profile or supply a custom
// threshold in [0,1].
const (
	ProfileConfident    = "confident"
	ProfileConservative = "conservative"
	ProfileAggressive   = "aggressive"
)

// DefaultThreshold is the confident profile's threshold.
const DefaultThreshold = 0.5

var profileThresholds = map[string]float64{
	ProfileConfident:    0.5,
	ProfileConservative: 0.8,
	ProfileAggressive:   0.3,
}

// ProfileThreshold resolves a named profile to its threshold.
func ProfileThreshold(profile string) (float64, bool) {
	threshold, ok := profileThresholds[strings.ToLower(strings.TrimSpace(profile))]
	return threshold, ok
}

// Profiles returns the recognized profile names.
func Profiles() []string {
	return []string{ProfileAggressive, ProfileConfident, ProfileConservative}
}

// Decision is the routing outcome for one classification.
type Decision struct {
	// Review is true when the result fell below the confidence threshold
	// and the file belongs in the manual-review bucket.
	Review bool
	// Category is the assigned label when Review is false.
	Category classify.Category
	// Reason documents why a file was routed to review.
	Reason string
	// Result retains the classification that produced the decision for
	// audit logging.
	Result forest.Result
}

// FolderName returns the library subdirectory the decision maps to.
func (d Decision) FolderName() string {
	if d.Review {
		return classify.ManualReviewFolder
	}
	return d.Category.FolderName()
}

// Route applies the confidence threshold to a classification result.
// A result routes to its top category iff confidence >= threshold;
// otherwise it routes to manual review. Raising the threshold can only
// move a decision toward review, never the reverse.
func Route(result forest.Result, threshold float64) Decision {
	if result.Confidence >= threshold {
		return Decision{Category: result.Category, Result: result}
	}
	return Decision{
		Review: true,
		Reason: fmt.Sprintf("confidence %.3f below threshold %.2f", result.Confidence, threshold),
		Result: result,
	}
}

// Degraded produces the fail-closed decision used when the classifier is
// unavailable: everything routes to manual review so organization still
// proceeds.
func Degraded(reason string) Decision {
	if strings.TrimSpace(reason) == "" {
		reason = "classifier unavailable"
	}
	return Decision{Review: true, Reason: reason}
}
