package explain

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slide-explainer/backend/internal/models"
	"github.com/slide-explainer/backend/internal/providers"
)

func newTestOrchestrator(p providers.Generator, cfg GeneratorConfig) *Orchestrator {
	return NewOrchestrator(newTestGenerator(p, cfg), FixedDelayPacer{})
}

func TestRunBatchSkipsEmptySlides(t *testing.T) {
	o := newTestOrchestrator(echoProvider(), GeneratorConfig{})
	got := o.RunBatch(context.Background(), []string{"Intro", "", "Summary"})

	assert.Equal(t, []models.SlideExplanation{
		{SlideNumber: 1, Explanation: "about: Intro"},
		{SlideNumber: 3, Explanation: "about: Summary"},
	}, got)
}

func TestRunBatchAllSlidesEmpty(t *testing.T) {
	p := echoProvider()
	o := newTestOrchestrator(p, GeneratorConfig{})
	got := o.RunBatch(context.Background(), []string{"", "", ""})

	assert.Empty(t, got)
	assert.EqualValues(t, 0, p.callCount())
}

func TestRunBatchOrdersBySlideNumberNotCompletion(t *testing.T) {
	// The first slide finishes last; the output must still be ascending.
	p := &stubProvider{fn: func(_ context.Context, req providers.Request) (providers.Response, error) {
		if strings.Contains(req.Prompt, "slide number: 1,") {
			time.Sleep(50 * time.Millisecond)
		}
		_, text, _ := strings.Cut(req.Prompt, "slide text: ")
		return providers.Response{Text: text}, nil
	}}

	o := newTestOrchestrator(p, GeneratorConfig{})
	got := o.RunBatch(context.Background(), []string{"alpha", "beta", "gamma"})

	require.Len(t, got, 3)
	for i, e := range got {
		assert.Equal(t, i+1, e.SlideNumber)
	}
	assert.Equal(t, "alpha", got[0].Explanation)
}

func TestRunBatchIsolatesTimeoutToOneSlide(t *testing.T) {
	p := &stubProvider{fn: func(ctx context.Context, req providers.Request) (providers.Response, error) {
		if strings.Contains(req.Prompt, "slide text: hang") {
			<-ctx.Done()
			return providers.Response{}, ctx.Err()
		}
		_, text, _ := strings.Cut(req.Prompt, "slide text: ")
		return providers.Response{Text: "ok: " + text}, nil
	}}

	o := newTestOrchestrator(p, GeneratorConfig{Timeout: 20 * time.Millisecond})
	got := o.RunBatch(context.Background(), []string{"fine", "hang", "also fine"})

	require.Len(t, got, 3)
	assert.Equal(t, "ok: fine", got[0].Explanation)
	assert.Contains(t, got[1].Explanation, errorOccurredMessage)
	assert.Equal(t, "ok: also fine", got[2].Explanation)
}

func TestRunBatchDropsEmptyGeneratedText(t *testing.T) {
	p := &stubProvider{fn: func(_ context.Context, req providers.Request) (providers.Response, error) {
		if strings.Contains(req.Prompt, "slide text: quiet") {
			return providers.Response{Text: ""}, nil
		}
		return providers.Response{Text: "something"}, nil
	}}

	o := newTestOrchestrator(p, GeneratorConfig{})
	got := o.RunBatch(context.Background(), []string{"loud", "quiet"})

	assert.Equal(t, []models.SlideExplanation{{SlideNumber: 1, Explanation: "something"}}, got)
}

func TestFixedDelayPacerPacesSubmissions(t *testing.T) {
	p := echoProvider()
	o := NewOrchestrator(newTestGenerator(p, GeneratorConfig{}), FixedDelayPacer{Delay: 10 * time.Millisecond})

	start := time.Now()
	o.RunBatch(context.Background(), []string{"a", "b", "c"})
	elapsed := time.Since(start)

	// One pacer wait per submitted slide.
	assert.GreaterOrEqual(t, elapsed, 30*time.Millisecond)
}

func TestFixedDelayPacerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	FixedDelayPacer{Delay: time.Second}.Wait(ctx)
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}
