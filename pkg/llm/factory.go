package llm

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/wilco-ai/wilco-engine/pkg/config"
)

// NewGenerator creates the configured provider's generation client.
func NewGenerator(cfg *config.GenerationConfig, logger *zap.Logger) (Generator, error) {
	switch cfg.Provider {
	case "anthropic":
		return NewAnthropicClient(cfg.APIKey, cfg.Model, logger)
	case "openai":
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL, logger)
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
}
