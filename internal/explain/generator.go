// Package explain contains the explanation pipeline: the per-slide generator
// wrapper, the batch orchestrator, the periodic inbox scanner, and the status
// resolver.
package explain

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/labstack/gommon/log"

	"github.com/slide-explainer/backend/internal/providers"
)

const (
	errorOccurredMessage = "An error occurred while processing the presentation:"
	promptPreamble       = "I need an explanation based on a slide presentation. Here are the key points of the presentation - "

	defaultRole     = "user"
	defaultTimeout  = 10 * time.Second
	defaultCooldown = 60 * time.Second
)

// GeneratorConfig bounds a single generation call.
type GeneratorConfig struct {
	Model    string
	Role     string
	Timeout  time.Duration
	Cooldown time.Duration
}

// Generator produces one explanation per slide. Every failure is scoped to
// its own slide and folded into the returned text, so a bad slide can never
// abort its siblings.
type Generator struct {
	provider providers.Generator
	cfg      GeneratorConfig
	logger   *log.Logger

	// wait is overridable so tests do not sit through the cooldown.
	wait func(ctx context.Context, d time.Duration)
}

func NewGenerator(provider providers.Generator, cfg GeneratorConfig, logger *log.Logger) *Generator {
	if cfg.Role == "" {
		cfg.Role = defaultRole
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = defaultCooldown
	}
	if logger == nil {
		logger = log.New("explain")
	}
	return &Generator{provider: provider, cfg: cfg, logger: logger, wait: sleepContext}
}

// Explain issues exactly one generation call for the slide. On a rate-limit
// signal it waits out the cooldown and returns the rate-limit message; on any
// other failure it returns the error message for this slide. No retries.
func (g *Generator) Explain(ctx context.Context, slideNumber int, slideText string) string {
	callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
	defer cancel()

	resp, err := g.provider.Generate(callCtx, providers.Request{
		Model:  g.cfg.Model,
		Role:   g.cfg.Role,
		Prompt: fmt.Sprintf("%sslide number: %d, slide text: %s", promptPreamble, slideNumber, slideText),
	})
	switch {
	case err == nil:
		return resp.Text
	case providers.IsRateLimit(err):
		msg := g.rateLimitMessage()
		g.logger.Errorf("slide %d: %s", slideNumber, msg)
		g.wait(ctx, g.cfg.Cooldown)
		return msg
	default:
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("generation timed out after %s", g.cfg.Timeout)
		}
		g.logger.Errorf("%s %d: %v", errorOccurredMessage, slideNumber, err)
		return fmt.Sprintf("%s %d: %v", errorOccurredMessage, slideNumber, err)
	}
}

func (g *Generator) rateLimitMessage() string {
	return fmt.Sprintf("Rate limit exceeded. Please wait %d seconds and try again.", int(g.cfg.Cooldown.Seconds()))
}

func sleepContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
