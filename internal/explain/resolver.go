package explain

import (
	"errors"

	"github.com/slide-explainer/backend/internal/jobstore"
	"github.com/slide-explainer/backend/internal/models"
)

// Resolver answers status polls by inspecting the inbox and outbox. Job state
// is never cached: every call reconstructs it from the directories.
type Resolver struct {
	store jobstore.Store
}

func NewResolver(store jobstore.Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve classifies uid as not_found, pending, or done. Ambiguous lookups
// (several entries sharing a uid prefix) surface as errors rather than
// silently using the first match.
func (r *Resolver) Resolve(uid string) (models.JobStatus, error) {
	key, err := r.store.FindUpload(uid)
	if errors.Is(err, jobstore.ErrNotFound) {
		return models.JobStatus{State: models.StateNotFound}, nil
	}
	if err != nil {
		return models.JobStatus{}, err
	}

	status := models.JobStatus{
		State:     models.StatePending,
		Filename:  key.Name,
		Timestamp: key.Timestamp,
	}

	resultKey, found, err := r.store.FindResult(uid)
	if err != nil {
		return models.JobStatus{}, err
	}
	if !found {
		return status, nil
	}

	explanations, err := r.store.ReadResult(resultKey)
	if err != nil {
		return models.JobStatus{}, err
	}
	status.State = models.StateDone
	status.Explanations = explanations
	return status, nil
}
