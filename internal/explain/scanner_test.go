package explain

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slide-explainer/backend/internal/jobstore"
	"github.com/slide-explainer/backend/internal/models"
	"github.com/slide-explainer/backend/internal/testutil"
)

func newTestScanner(store jobstore.Store, p *stubProvider) *Scanner {
	return NewScanner(store, newTestOrchestrator(p, GeneratorConfig{}), time.Minute, nil)
}

func seedUpload(t *testing.T, store *testutil.MemStore, uid string, slides ...string) {
	t.Helper()
	require.NoError(t, store.SaveUpload(models.UploadJob{
		UID:              uid,
		OriginalFilename: "deck.pptx",
		CreatedAt:        time.Now(),
		Slides:           slides,
	}))
}

func TestSweepProcessesCandidates(t *testing.T) {
	store := testutil.NewMemStore()
	seedUpload(t, store, "uid-1", "Intro", "", "Summary")
	p := echoProvider()

	newTestScanner(store, p).Sweep(context.Background())

	key, found, err := store.FindResult("uid-1")
	require.NoError(t, err)
	require.True(t, found)

	result, err := store.ReadResult(key)
	require.NoError(t, err)
	assert.Equal(t, []models.SlideExplanation{
		{SlideNumber: 1, Explanation: "about: Intro"},
		{SlideNumber: 3, Explanation: "about: Summary"},
	}, result)
	assert.EqualValues(t, 2, p.callCount())
}

func TestSweepIsIdempotent(t *testing.T) {
	store := testutil.NewMemStore()
	seedUpload(t, store, "uid-1", "Only slide")
	p := echoProvider()
	scanner := newTestScanner(store, p)

	scanner.Sweep(context.Background())
	require.EqualValues(t, 1, p.callCount())

	// A completed job must not trigger any further generation calls.
	scanner.Sweep(context.Background())
	scanner.Sweep(context.Background())
	assert.EqualValues(t, 1, p.callCount())
}

// flakyStore fails slide reads for one uid to exercise candidate isolation.
type flakyStore struct {
	*testutil.MemStore
	failUID string
}

func (f *flakyStore) ReadSlides(key jobstore.Key) ([]string, error) {
	if key.UID == f.failUID {
		return nil, errors.New("inbox file unreadable")
	}
	return f.MemStore.ReadSlides(key)
}

func TestSweepContinuesPastFailingCandidate(t *testing.T) {
	mem := testutil.NewMemStore()
	seedUpload(t, mem, "uid-bad", "text")
	seedUpload(t, mem, "uid-good", "text")
	store := &flakyStore{MemStore: mem, failUID: "uid-bad"}

	newTestScanner(store, echoProvider()).Sweep(context.Background())

	_, found, err := store.FindResult("uid-good")
	require.NoError(t, err)
	assert.True(t, found, "healthy candidate should complete")

	// The failing candidate wrote nothing and stays pending for next sweep.
	_, found, err = store.FindResult("uid-bad")
	require.NoError(t, err)
	assert.False(t, found)
	pending, err := store.ListPending()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "uid-bad", pending[0].UID)
}

func TestRunSweepsImmediatelyAndStopsOnCancel(t *testing.T) {
	store := testutil.NewMemStore()
	seedUpload(t, store, "uid-1", "Hello")
	p := echoProvider()
	scanner := NewScanner(store, newTestOrchestrator(p, GeneratorConfig{}), time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		scanner.Run(ctx)
		close(done)
	}()

	// The first sweep runs before the first tick.
	require.Eventually(t, func() bool {
		_, found, err := store.FindResult("uid-1")
		return err == nil && found
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scanner did not stop after cancellation")
	}
}
