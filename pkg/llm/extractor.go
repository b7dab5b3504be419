package llm

import (
	"regexp"
	"strings"
)

// Fenced-block patterns, language-labeled fence first. (?s) lets the body
// span lines; matching is non-greedy so the first block wins.
var (
	labeledFencePattern = regexp.MustCompile("(?s)```go\\s*(.*?)\\s*```")
	plainFencePattern   = regexp.MustCompile("(?s)```\\s*(.*?)\\s*```")
)

// ExtractSnippet isolates the runnable snippet from a raw generation
// response. It prefers a go-labeled fenced block, then any fenced block,
// and finally falls back to the whole trimmed response. Extraction never
// fails; the executor decides whether the text is valid.
func ExtractSnippet(text string) string {
	if m := labeledFencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	if m := plainFencePattern.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return strings.TrimSpace(text)
}
