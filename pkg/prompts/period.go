package prompts

import (
	"regexp"
	"strings"
)

// PeriodRequiredError is returned before any generation call when the
// loaded tables are wide-format and the question names no period.
type PeriodRequiredError struct{}

func (e *PeriodRequiredError) Error() string {
	return "the loaded data is organized by calendar month; please specify a period (for example \"January 2024\" or \"Q1 2024\")"
}

// periodTokens are the month, quarter and range words recognized in
// Czech and English questions.
var periodTokens = []string{
	// Czech month names including genitive forms
	"leden", "ledna", "únor", "února", "březen", "března",
	"duben", "dubna", "květen", "května", "červen", "června",
	"červenec", "července", "srpen", "srpna", "září",
	"říjen", "října", "listopad", "listopadu", "prosinec", "prosince",
	// English month names
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
	// Quarters and ranges
	"q1", "q2", "q3", "q4", "kvartál", "quarter",
	"letos", "loni", "ytd", "rok ", "year",
}

var yearPattern = regexp.MustCompile(`20\d{2}`)

// hasPeriodToken reports whether the question names a recognizable period.
func hasPeriodToken(question string) bool {
	q := strings.ToLower(question)
	if yearPattern.MatchString(q) {
		return true
	}
	for _, token := range periodTokens {
		if strings.Contains(q, token) {
			return true
		}
	}
	return false
}
