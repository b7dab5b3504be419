package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ResultKind names the shape of a normalized execution result.
type ResultKind string

const (
	ResultTable   ResultKind = "table"
	ResultMapping ResultKind = "mapping"
	ResultScalar  ResultKind = "scalar"
)

// Query represents a single analysis run. Only successful runs with a
// non-empty result are persisted; failed runs are returned to the caller
// and discarded.
type Query struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
	UserID   string    `json:"user_id"`

	// The question and how it was routed
	Question         string  `json:"question"`
	Domain           string  `json:"domain"`
	DomainConfidence float64 `json:"domain_confidence"`

	// The generated snippet and its outcome
	Snippet    string          `json:"snippet"`
	Title      string          `json:"title"`
	Result     json.RawMessage `json:"result"`
	ResultKind ResultKind      `json:"result_kind"`
	RowCount   int             `json:"row_count"`

	DatasetIDs    []uuid.UUID `json:"dataset_ids"`
	ParentQueryID *uuid.UUID  `json:"parent_query_id,omitempty"`
	DurationMs    int64       `json:"duration_ms"`

	CreatedAt time.Time `json:"created_at"`
}

// ContextChainEntry is the compiler-facing projection of a prior Query.
// It always resolves to a persisted, previously successful Query.
type ContextChainEntry struct {
	QueryID       uuid.UUID
	Question      string
	Snippet       string
	ResultSummary string
	RowCount      int
}

// QueryPage is one page of a user's query history.
type QueryPage struct {
	Total int      `json:"total"`
	Items []*Query `json:"items"`
}
