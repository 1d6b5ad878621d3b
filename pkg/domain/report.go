package domain

import "time"

// Outcomes recorded for a file.
const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeSkipped   = "skipped"
)

// Failure records a file that could not be processed.
type Failure struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
}

// StepReport is the outcome of one migration step.
type StepReport struct {
	Name      string    `json:"name"`
	Succeeded []string  `json:"succeeded"`
	Failed    []Failure `json:"failed"`
	Skipped   []string  `json:"skipped"`
	Notes     []string  `json:"notes,omitempty"`
}

// Report is the persisted outcome of a migration run.
type Report struct {
	ID       string       `json:"id"`
	Root     string       `json:"root"`
	From     int          `json:"from"`
	To       int          `json:"to"`
	DryRun   bool         `json:"dry_run"`
	Backup   string       `json:"backup,omitempty"`
	Started  time.Time    `json:"started"`
	Finished time.Time    `json:"finished"`
	Steps    []StepReport `json:"steps"`
}

// NewReport creates an empty report for a run starting now.
func NewReport(id, root string, from, to int) *Report {
	return &Report{
		ID:      id,
		Root:    root,
		From:    from,
		To:      to,
		Started: time.Now(),
		Steps:   []StepReport{},
	}
}

// FailedCount returns the number of failed files over all steps.
func (r *Report) FailedCount() int {
	n := 0
	for _, s := range r.Steps {
		n += len(s.Failed)
	}
	return n
}

// SucceededCount returns the number of rewritten files over all steps.
func (r *Report) SucceededCount() int {
	n := 0
	for _, s := range r.Steps {
		n += len(s.Succeeded)
	}
	return n
}
