package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSnippet(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "labeled fence",
			input:    "Here is the code:\n```go\ntitle := \"x\"\nresult := Sales\n```\nDone.",
			expected: "title := \"x\"\nresult := Sales",
		},
		{
			name:     "plain fence",
			input:    "```\nresult := 42\n```",
			expected: "result := 42",
		},
		{
			name:     "labeled fence preferred over plain",
			input:    "```\nwrong := 1\n```\n```go\nresult := 2\n```",
			expected: "result := 2",
		},
		{
			name:     "no fence falls back to whole text",
			input:    "  title := \"x\"\nresult := Sales  \n",
			expected: "title := \"x\"\nresult := Sales",
		},
		{
			name:     "empty input",
			input:    "   ",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ExtractSnippet(tt.input))
		})
	}
}
