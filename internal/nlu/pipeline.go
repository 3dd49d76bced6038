// Package nlu implements the hybrid natural-language-understanding pipeline:
// intent classification and task-title extraction over a local generative
// model. Every AI output is untrusted advisory text behind a deterministic
// validator, and every path has a rule-based fallback, so the pipeline
// produces a sensible result even with the model entirely absent.
package nlu

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Generator is the slice of the inference session the pipeline consumes: a
// single synchronous call with an explicit per-call deadline.
type Generator interface {
	Generate(ctx context.Context, prompt string, maxTokens int, timeout time.Duration) (string, error)
}

// Token caps per AI sub-call. Small budgets keep the rule paths' latency
// guarantees meaningful even when the model does get invoked.
const (
	intentMaxTokens = 5
	titleMaxTokens  = 30
)

// Config encapsulates pipeline tunables.
type Config struct {
	// IntentTimeout bounds the AI intent pass.
	IntentTimeout time.Duration
	// TitleTimeout bounds the AI title-extraction pass.
	TitleTimeout time.Duration
	Logger       zerolog.Logger
}

// Pipeline classifies messages and extracts task drafts.
type Pipeline struct {
	gen           Generator
	intentTimeout time.Duration
	titleTimeout  time.Duration
	log           zerolog.Logger
}

// New constructs a Pipeline over the given generator.
func New(gen Generator, cfg Config) *Pipeline {
	if cfg.IntentTimeout <= 0 {
		cfg.IntentTimeout = 10 * time.Second
	}
	if cfg.TitleTimeout <= 0 {
		cfg.TitleTimeout = 15 * time.Second
	}
	return &Pipeline{
		gen:           gen,
		intentTimeout: cfg.IntentTimeout,
		titleTimeout:  cfg.TitleTimeout,
		log:           cfg.Logger,
	}
}
