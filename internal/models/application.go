package models

import (
	"time"
)

type ApplicationStatus string

const (
	StatusApplied ApplicationStatus = "APPLIED"
	StatusSkipped ApplicationStatus = "SKIPPED"
	StatusFailed  ApplicationStatus = "FAILED"
)

// Application is the outcome of one attempt to apply to a posting.
type Application struct {
	RunID       string            `json:"run_id"`
	URL         string            `json:"url"`
	Title       string            `json:"title"`
	Status      ApplicationStatus `json:"status"`
	Reason      string            `json:"reason,omitempty"`
	AttemptedAt time.Time         `json:"attempted_at"`
	Duration    time.Duration     `json:"duration"`
}

type RunSummary struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Pages      int       `json:"pages"`
	Scanned    int       `json:"scanned"`
	Matched    int       `json:"matched"`
	New        int       `json:"new"`
	Applied    int       `json:"applied"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
}

// Count tallies one application outcome into the summary.
func (s *RunSummary) Count(app Application) {
	switch app.Status {
	case StatusApplied:
		s.Applied++
	case StatusSkipped:
		s.Skipped++
	default:
		s.Failed++
	}
}
