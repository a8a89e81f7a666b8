package bundler

import "time"

// Status is the outcome of a run that did not fail.
type Status string

const (
	// StatusCompleted means the data directory now mirrors the fresh build output.
	StatusCompleted Status = "completed"
	// StatusSkipped means the frontend directory was absent under the skip policy.
	StatusSkipped Status = "skipped"
)

// Result describes a successful or skipped run.
type Result struct {
	RunID       string
	Status      Status
	Destination string
	// Files is the number of regular files copied.
	Files    int
	Duration time.Duration
	// Reason explains a skip.
	Reason string
}
