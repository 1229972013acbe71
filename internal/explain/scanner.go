package explain

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/slide-explainer/backend/internal/jobstore"
)

const defaultScanInterval = 10 * time.Second

// Scanner drives pending uploads through the orchestrator on a fixed
// schedule. Discovery is a directory diff: an inbox entry with no outbox
// entry is a candidate, and the outbox presence check is the sole duplicate
// prevention, so completed files are never reprocessed.
type Scanner struct {
	store        jobstore.Store
	orchestrator *Orchestrator
	interval     time.Duration
	logger       *log.Logger
}

func NewScanner(store jobstore.Store, orchestrator *Orchestrator, interval time.Duration, logger *log.Logger) *Scanner {
	if interval <= 0 {
		interval = defaultScanInterval
	}
	if logger == nil {
		logger = log.New("scanner")
	}
	return &Scanner{store: store, orchestrator: orchestrator, interval: interval, logger: logger}
}

// Run sweeps immediately, then on every tick until ctx is cancelled.
func (s *Scanner) Run(ctx context.Context) {
	s.logger.Infof("explainer loop started, scanning every %s", s.interval)
	s.Sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("explainer loop stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep processes every current candidate. A failing candidate is logged and
// skipped; since nothing was written for it, the next sweep retries it.
func (s *Scanner) Sweep(ctx context.Context) {
	candidates, err := s.store.ListPending()
	if err != nil {
		s.logger.Errorf("scanning inbox: %v", err)
		return
	}

	for _, key := range candidates {
		if ctx.Err() != nil {
			return
		}
		if err := s.process(ctx, key); err != nil {
			s.logger.Errorf("processing %s: %v", key.UID, err)
			continue
		}
		s.logger.Infof("processed %s (%s)", key.UID, key.Name)
	}
}

func (s *Scanner) process(ctx context.Context, key jobstore.Key) error {
	slides, err := s.store.ReadSlides(key)
	if err != nil {
		return err
	}
	explanations := s.orchestrator.RunBatch(ctx, slides)
	if err := s.store.SaveResult(key, explanations); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}
