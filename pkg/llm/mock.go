package llm

import "context"

// MockGenerator is a configurable mock for testing generation flows.
// Set the function field to control behavior in tests.
type MockGenerator struct {
	// GenerateFunc is called when Generate is invoked.
	// If nil, returns empty string and nil error.
	GenerateFunc func(ctx context.Context, prompt string, maxOutputTokens int) (string, error)

	// ModelName is returned by Model. Defaults to "mock-model".
	ModelName string

	// Call tracking for verification
	GenerateCalls int
	LastPrompt    string
}

// NewMockGenerator creates a new mock with sensible defaults.
func NewMockGenerator() *MockGenerator {
	return &MockGenerator{ModelName: "mock-model"}
}

// Generate implements Generator.
func (m *MockGenerator) Generate(ctx context.Context, prompt string, maxOutputTokens int) (string, error) {
	m.GenerateCalls++
	m.LastPrompt = prompt
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt, maxOutputTokens)
	}
	return "", nil
}

// Model implements Generator.
func (m *MockGenerator) Model() string { return m.ModelName }
