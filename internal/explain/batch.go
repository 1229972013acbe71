package explain

import (
	"context"
	"sync"
	"time"

	"github.com/slide-explainer/backend/internal/models"
)

// Pacer throttles the submission of generation calls. It bounds the outbound
// call rate, not the number of calls in flight.
type Pacer interface {
	Wait(ctx context.Context)
}

// FixedDelayPacer pauses a fixed duration between submissions.
type FixedDelayPacer struct {
	Delay time.Duration
}

func (p FixedDelayPacer) Wait(ctx context.Context) {
	if p.Delay <= 0 {
		return
	}
	sleepContext(ctx, p.Delay)
}

// Orchestrator fans one presentation's slides out to the generator and joins
// the results in slide order.
type Orchestrator struct {
	generator *Generator
	pacer     Pacer
}

func NewOrchestrator(generator *Generator, pacer Pacer) *Orchestrator {
	if pacer == nil {
		pacer = FixedDelayPacer{Delay: time.Second}
	}
	return &Orchestrator{generator: generator, pacer: pacer}
}

// RunBatch submits one concurrent generation call per non-empty slide,
// pausing on the pacer between submissions, then waits for every call to
// finish. Results are keyed by slide index, never by completion order, and
// entries whose generated text is empty are dropped, so the output is an
// ascending slide-number sequence covering exactly the slides that had text.
func (o *Orchestrator) RunBatch(ctx context.Context, slides []string) []models.SlideExplanation {
	results := make([]string, len(slides))

	var wg sync.WaitGroup
	for i, text := range slides {
		if text == "" {
			continue
		}
		wg.Add(1)
		go func(slideNumber int, slideText string) {
			defer wg.Done()
			results[slideNumber-1] = o.generator.Explain(ctx, slideNumber, slideText)
		}(i+1, text)
		o.pacer.Wait(ctx)
	}
	wg.Wait()

	explanations := make([]models.SlideExplanation, 0, len(slides))
	for i, text := range results {
		if text == "" {
			continue
		}
		explanations = append(explanations, models.SlideExplanation{SlideNumber: i + 1, Explanation: text})
	}
	return explanations
}
