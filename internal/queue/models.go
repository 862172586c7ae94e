package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a queue item.
type Status string

const (
	StatusPending     Status = "pending"
	StatusClassifying Status = "classifying"
	StatusClassified  Status = "classified"
	StatusOrganizing  Status = "organizing"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"
)

// Outcome is the terminal disposition of an organize action.
type Outcome string

const (
	OutcomeMoved             Outcome = "moved"
	OutcomeSkipped           Outcome = "skipped"
	OutcomeFailed            Outcome = "failed"
	OutcomeRetriedThenFailed Outcome = "retried_then_failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusClassifying,
	StatusClassified,
	StatusOrganizing,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

var processingStatuses = map[Status]struct{}{
	StatusClassifying: {},
	StatusOrganizing:  {},
}

type statusTransition struct {
	from Status
	to   Status
}

// stageRollbackTransitions return in-flight items to their stage's start
// status when a crashed or stopped run left them mid-processing.
var stageRollbackTransitions = []statusTransition{
	{from: StatusClassifying, to: StatusPending},
	{from: StatusOrganizing, to: StatusClassified},
}

// Item represents one observed file instance persisted in SQLite. Every
// item ends in exactly one terminal outcome; the row doubles as the
// organize action record for later reporting.
type Item struct {
	ID                int64
	ScanID            string
	SourcePath        string
	Name              string
	Extension         string
	SizeBytes         int64
	ModifiedAt        time.Time
	Status            Status
	Category          string
	Confidence        float64
	ProbabilitiesJSON string
	NeedsReview       bool
	ReviewReason      string
	Outcome           Outcome
	FinalPath         string
	Attempts          int
	ErrorMessage      string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// HealthSummary describes aggregated queue counts per key lifecycle states.
type HealthSummary struct {
	Total          int
	Pending        int
	Processing     int
	Failed         int
	Completed      int
	AwaitingReview int
	ByStatus       map[Status]int
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsProcessing returns true when the status reflects an in-flight operation.
func (i Item) IsProcessing() bool {
	_, ok := processingStatuses[i.Status]
	return ok
}

// IsTerminal reports whether the item has reached its final disposition.
func (i Item) IsTerminal() bool {
	return i.Status == StatusCompleted || i.Status == StatusFailed
}

// SetFailed marks the item as failed with the given error message.
func (i *Item) SetFailed(message string) {
	i.Status = StatusFailed
	i.ErrorMessage = message
	if i.Outcome == "" {
		i.Outcome = OutcomeFailed
	}
}
