// Package entity defines the background update job and its result shape.
package entity

import "time"

// Job statuses. A job always reaches a terminal status (completed or
// failed), even when every asset in the batch fails.
const (
	JobStatusPending   = "pending"
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// AssetResult is the per-asset outcome of one update batch.
type AssetResult struct {
	AssetID uint   `json:"asset_id"`
	Name    string `json:"name"`
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// Job is one background update run. Processed/SuccessCount/FailureCount
// are updated after every asset so that status polling shows progress.
type Job struct {
	ID           string        `json:"id"`
	Status       string        `json:"status"`
	Total        int           `json:"total"`
	Processed    int           `json:"processed"`
	SuccessCount int           `json:"success_count"`
	FailureCount int           `json:"failure_count"`
	Results      []AssetResult `json:"results,omitempty"`
	Error        string        `json:"error,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// IsTerminal reports whether the job has finished.
func (j Job) IsTerminal() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed
}
