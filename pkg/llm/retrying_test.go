package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wilco-ai/wilco-engine/pkg/retry"
)

func fastRetryConfig() *retry.Config {
	return &retry.Config{
		MaxRetries:   2,
		InitialDelay: 1,
		MaxDelay:     1,
		Multiplier:   1.0,
	}
}

func TestRetryingGeneratorRecoversFromTransientError(t *testing.T) {
	calls := 0
	inner := &MockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
			calls++
			if calls == 1 {
				return "", NewError(ErrorTypeEndpoint, "server error", true, nil)
			}
			return "result := 1", nil
		},
	}

	gen := NewRetryingGenerator(inner, fastRetryConfig(), zap.NewNop())
	out, err := gen.Generate(context.Background(), "prompt", 100)
	require.NoError(t, err)

	assert.Equal(t, "result := 1", out)
	assert.Equal(t, 2, calls)
}

func TestRetryingGeneratorDoesNotRetryAuthError(t *testing.T) {
	calls := 0
	inner := &MockGenerator{
		GenerateFunc: func(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
			calls++
			return "", NewError(ErrorTypeAuth, "authentication failed", false, nil)
		},
	}

	gen := NewRetryingGenerator(inner, fastRetryConfig(), zap.NewNop())
	_, err := gen.Generate(context.Background(), "prompt", 100)
	require.Error(t, err)

	assert.Equal(t, 1, calls)
}

func TestRetryingGeneratorDelegatesModel(t *testing.T) {
	inner := &MockGenerator{ModelName: "test-model"}
	gen := NewRetryingGenerator(inner, nil, zap.NewNop())
	assert.Equal(t, "test-model", gen.Model())
}
