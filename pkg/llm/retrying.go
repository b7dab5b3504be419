package llm

import (
	"context"

	"go.uber.org/zap"

	"github.com/wilco-ai/wilco-engine/pkg/retry"
)

// RetryingGenerator wraps a Generator with backoff on transient failures.
// Permanent failures (auth, unknown model) pass through immediately.
type RetryingGenerator struct {
	inner  Generator
	cfg    *retry.Config
	logger *zap.Logger
}

// NewRetryingGenerator wraps gen with the given retry config; nil cfg uses
// the defaults.
func NewRetryingGenerator(gen Generator, cfg *retry.Config, logger *zap.Logger) *RetryingGenerator {
	if cfg == nil {
		cfg = retry.DefaultConfig()
	}
	return &RetryingGenerator{
		inner:  gen,
		cfg:    cfg,
		logger: logger.Named("llm-retry"),
	}
}

var _ Generator = (*RetryingGenerator)(nil)

func (g *RetryingGenerator) Generate(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
	var out string
	attempt := 0
	err := retry.DoIfRetryable(ctx, g.cfg, func() error {
		attempt++
		text, err := g.inner.Generate(ctx, prompt, maxOutputTokens)
		if err != nil {
			if attempt <= g.cfg.MaxRetries && retry.IsRetryable(err) {
				g.logger.Warn("Generation attempt failed, will retry",
					zap.Int("attempt", attempt),
					zap.Error(err))
			}
			return err
		}
		out = text
		return nil
	})
	return out, err
}

func (g *RetryingGenerator) Model() string {
	return g.inner.Model()
}
