// Package jobstore persists upload jobs and their results. The inbox and
// outbox directories are the system of record: a job exists iff its inbox
// file exists, and it is done iff its outbox file exists.
package jobstore

import (
	"errors"

	"github.com/slide-explainer/backend/internal/models"
)

var (
	// ErrNotFound means no inbox entry matches the requested uid.
	ErrNotFound = errors.New("job not found")

	// ErrAmbiguousUID means more than one entry matches a uid prefix.
	// Identifiers are unique by construction, so this indicates outside
	// interference with the data directories rather than a normal state.
	ErrAmbiguousUID = errors.New("multiple entries match uid")
)

// Store defines the job-state operations the pipeline needs. DirStore is the
// production implementation; tests use the in-memory double in testutil.
type Store interface {
	// SaveUpload writes a new inbox entry for the job.
	SaveUpload(job models.UploadJob) error

	// FindUpload locates the inbox entry for uid. Returns ErrNotFound or
	// ErrAmbiguousUID when the lookup does not hit exactly one entry.
	FindUpload(uid string) (Key, error)

	// ListPending returns the keys of inbox entries that have no outbox
	// entry yet, in directory order.
	ListPending() ([]Key, error)

	// ReadSlides loads the ordered slide texts of an inbox entry.
	ReadSlides(key Key) ([]string, error)

	// SaveResult writes the outbox entry for key. The write is atomic: a
	// concurrent reader sees either no entry or a complete one.
	SaveResult(key Key, explanations []models.SlideExplanation) error

	// FindResult locates the outbox entry for uid, if any. Returns
	// ErrAmbiguousUID when several match.
	FindResult(uid string) (Key, bool, error)

	// ReadResult loads an outbox entry as explanations ordered by
	// ascending slide number.
	ReadResult(key Key) ([]models.SlideExplanation, error)
}
