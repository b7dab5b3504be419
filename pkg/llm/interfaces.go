// Package llm provides the text-generation service clients that turn a
// compiled prompt into a raw snippet response.
package llm

import "context"

// Generator defines the narrow contract the pipeline consumes: one
// prompt in, raw response text out. A single request, no retry.
// Use this interface for dependency injection to enable mocking in tests.
type Generator interface {
	// Generate sends the prompt with a bounded output budget and returns
	// the raw response text.
	Generate(ctx context.Context, prompt string, maxOutputTokens int) (string, error)

	// Model returns the configured model name.
	Model() string
}

// Compile-time checks that both providers implement Generator.
var (
	_ Generator = (*AnthropicClient)(nil)
	_ Generator = (*OpenAIClient)(nil)
)
