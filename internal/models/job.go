// Package models contains the shared types for upload jobs and their results.
package models

import "time"

// JobState classifies a job as seen by the status endpoint.
type JobState string

const (
	StateNotFound JobState = "not_found"
	StatePending  JobState = "pending"
	StateDone     JobState = "done"
)

// UploadJob represents one submitted presentation. It is created in full at
// upload time and never mutated afterwards; the inbox file is its only
// persistent form.
type UploadJob struct {
	UID              string
	OriginalFilename string
	CreatedAt        time.Time
	Slides           []string
}

// SlideExplanation is one generated explanation. SlideNumber is the 1-based
// position of the slide in the source presentation; slides whose source text
// was empty never appear in a result set.
type SlideExplanation struct {
	SlideNumber int    `json:"slide_number"`
	Explanation string `json:"explanation"`
}

// JobStatus is derived on demand from the inbox and outbox directories; it is
// never stored.
type JobStatus struct {
	State        JobState
	Filename     string
	Timestamp    time.Time
	Explanations []SlideExplanation
}
