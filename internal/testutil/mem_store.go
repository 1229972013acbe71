// mem_store.go - in-memory jobstore.Store implementation for testing
package testutil

import (
	"fmt"
	"sync"

	"github.com/slide-explainer/backend/internal/jobstore"
	"github.com/slide-explainer/backend/internal/models"
)

// MemStore implements jobstore.Store over maps. It mirrors the DirStore
// contract, including ambiguity errors, without touching the filesystem.
type MemStore struct {
	mu      sync.RWMutex
	uploads map[string]memUpload // keyed by uid
	results map[string][]models.SlideExplanation
}

type memUpload struct {
	key    jobstore.Key
	slides []string
}

func NewMemStore() *MemStore {
	return &MemStore{
		uploads: make(map[string]memUpload),
		results: make(map[string][]models.SlideExplanation),
	}
}

func (m *MemStore) SaveUpload(job models.UploadJob) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := jobstore.NewKey(job.UID, job.OriginalFilename, job.CreatedAt)
	slides := make([]string, len(job.Slides))
	copy(slides, job.Slides)
	m.uploads[job.UID] = memUpload{key: key, slides: slides}
	return nil
}

func (m *MemStore) FindUpload(uid string) (jobstore.Key, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	up, ok := m.uploads[uid]
	if !ok {
		return jobstore.Key{}, jobstore.ErrNotFound
	}
	return up.key, nil
}

func (m *MemStore) ListPending() ([]jobstore.Key, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var pending []jobstore.Key
	for uid, up := range m.uploads {
		if _, done := m.results[uid]; done {
			continue
		}
		pending = append(pending, up.key)
	}
	return pending, nil
}

func (m *MemStore) ReadSlides(key jobstore.Key) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	up, ok := m.uploads[key.UID]
	if !ok {
		return nil, fmt.Errorf("no upload for %s", key.UID)
	}
	slides := make([]string, len(up.slides))
	copy(slides, up.slides)
	return slides, nil
}

func (m *MemStore) SaveResult(key jobstore.Key, explanations []models.SlideExplanation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := make([]models.SlideExplanation, len(explanations))
	copy(stored, explanations)
	m.results[key.UID] = stored
	return nil
}

func (m *MemStore) FindResult(uid string) (jobstore.Key, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if _, ok := m.results[uid]; !ok {
		return jobstore.Key{}, false, nil
	}
	return m.uploads[uid].key, true, nil
}

func (m *MemStore) ReadResult(key jobstore.Key) ([]models.SlideExplanation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result, ok := m.results[key.UID]
	if !ok {
		return nil, fmt.Errorf("no result for %s", key.UID)
	}
	out := make([]models.SlideExplanation, len(result))
	copy(out, result)
	return out, nil
}

// ResultCount reports how many jobs have results, for idempotence checks.
func (m *MemStore) ResultCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.results)
}
