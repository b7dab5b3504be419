// Package sandbox executes generated snippets inside a capability-scoped
// Go interpreter and converts their captured output into a normalized,
// JSON-safe form.
package sandbox

import (
	"time"

	"github.com/wilco-ai/wilco-engine/pkg/tabular"
)

// Outcome is the tagged classification of a snippet's captured result
// binding. Exactly one variant applies; the normalizer matches all of
// them exhaustively.
type Outcome interface {
	isOutcome()
}

// Table is a frame result: rows by typed columns.
type Table struct {
	Frame *tabular.Frame
}

// Mapping is an already JSON-shaped result: a map or a slice.
type Mapping struct {
	Value any
}

// Scalar is a single plain value.
type Scalar struct {
	Value any
}

// Failure carries the message of a snippet that ran but failed.
type Failure struct {
	Message string
}

func (Table) isOutcome()   {}
func (Mapping) isOutcome() {}
func (Scalar) isOutcome()  {}
func (Failure) isOutcome() {}

// Execution is the full outcome of running one snippet.
type Execution struct {
	// Title is the snippet's optional human-readable first-line binding.
	Title string

	// Outcome classifies the captured result binding.
	Outcome Outcome

	// Duration is the wall-clock time the snippet ran.
	Duration time.Duration
}

// ExecutionError reports that a snippet failed at runtime or omitted the
// required result binding. Its message is surfaced to the caller as-is.
type ExecutionError struct {
	Message string
}

func (e *ExecutionError) Error() string {
	return e.Message
}
