package logging

import "regexp"

const (
	// MaxSnippetLogLength caps how much of a generated snippet is logged.
	MaxSnippetLogLength = 200
	// RedactedText is the replacement text for sensitive data.
	RedactedText = "[REDACTED]"
)

var (
	// password=xxx, pwd=xxx, pass=xxx (until next delimiter)
	passwordPattern = regexp.MustCompile(`(?i)(password|pwd|pass)=[^;&\s]+`)

	// Bearer JWTs (three base64url segments separated by dots)
	jwtPattern = regexp.MustCompile(`Bearer\s+[A-Za-z0-9-_]+\.[A-Za-z0-9-_]+\.[A-Za-z0-9-_]*`)

	// Anthropic/OpenAI style keys and api_key=... parameters
	apiKeyPattern = regexp.MustCompile(`(?i)(sk-[A-Za-z0-9-_]{16,}|(api[_-]?key|apikey)=[A-Za-z0-9-_]{16,})`)

	// user:pass@host in connection strings
	connStringPattern = regexp.MustCompile(`://[^:]+:[^@]+@[^/\s]+`)
)

// SanitizeConnectionString removes credentials from connection strings
// before they are logged.
func SanitizeConnectionString(connStr string) string {
	if connStr == "" {
		return ""
	}
	sanitized := passwordPattern.ReplaceAllString(connStr, "${1}="+RedactedText)
	sanitized = connStringPattern.ReplaceAllString(sanitized, "://"+RedactedText+"@"+RedactedText)
	return sanitized
}

// SanitizeError sanitizes error messages that might carry secrets, such as
// transport errors from the generation service.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}
	sanitized := passwordPattern.ReplaceAllString(err.Error(), "${1}="+RedactedText)
	sanitized = jwtPattern.ReplaceAllString(sanitized, "Bearer "+RedactedText)
	sanitized = apiKeyPattern.ReplaceAllString(sanitized, RedactedText)
	return sanitized
}

// TruncateSnippet shortens a generated snippet for logging.
func TruncateSnippet(snippet string) string {
	if len(snippet) <= MaxSnippetLogLength {
		return snippet
	}
	return snippet[:MaxSnippetLogLength] + "..."
}
