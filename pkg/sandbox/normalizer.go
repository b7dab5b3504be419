package sandbox

import (
	"encoding/json"
	"fmt"
	"reflect"

	"go.uber.org/zap"

	"github.com/wilco-ai/wilco-engine/pkg/models"
)

// Normalizer converts a tagged execution outcome into a JSON payload and
// a row count. Table rows are subject to a configurable ceiling so an
// unbounded result cannot be serialized in full.
type Normalizer struct {
	maxRows int
	logger  *zap.Logger
}

// NewNormalizer creates a normalizer with the given row ceiling.
func NewNormalizer(maxRows int, logger *zap.Logger) *Normalizer {
	return &Normalizer{
		maxRows: maxRows,
		logger:  logger.Named("normalizer"),
	}
}

// Normalized is the JSON-safe form of one execution outcome.
type Normalized struct {
	Result   json.RawMessage
	RowCount int
	Kind     models.ResultKind
}

// Normalize matches every outcome variant:
//   - Table: list of row mappings, row count = rows (capped at the ceiling)
//   - Mapping: passed through; row count = list length or 1 for a map
//   - Scalar: {"value": stringified}, row count 1
//   - Failure: returned as *ExecutionError
func (n *Normalizer) Normalize(outcome Outcome) (*Normalized, error) {
	switch o := outcome.(type) {
	case Table:
		records := o.Frame.Records()
		if len(records) > n.maxRows {
			n.logger.Warn("Result truncated to row ceiling",
				zap.Int("rows", len(records)),
				zap.Int("ceiling", n.maxRows))
			records = records[:n.maxRows]
		}
		payload, err := json.Marshal(records)
		if err != nil {
			return nil, fmt.Errorf("failed to encode table result: %w", err)
		}
		return &Normalized{Result: payload, RowCount: len(records), Kind: models.ResultTable}, nil

	case Mapping:
		payload, err := json.Marshal(o.Value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode mapping result: %w", err)
		}
		count := 1
		if v := reflect.ValueOf(o.Value); v.Kind() == reflect.Slice {
			count = v.Len()
		}
		return &Normalized{Result: payload, RowCount: count, Kind: models.ResultMapping}, nil

	case Scalar:
		payload, err := json.Marshal(map[string]string{"value": fmt.Sprint(o.Value)})
		if err != nil {
			return nil, fmt.Errorf("failed to encode scalar result: %w", err)
		}
		return &Normalized{Result: payload, RowCount: 1, Kind: models.ResultScalar}, nil

	case Failure:
		return nil, &ExecutionError{Message: o.Message}

	default:
		return nil, fmt.Errorf("unhandled outcome variant %T", outcome)
	}
}

// IsEmpty reports whether a normalized result carries no data. Empty
// results are returned to the caller but never persisted.
func (r *Normalized) IsEmpty() bool {
	if r.RowCount == 0 {
		return true
	}
	switch string(r.Result) {
	case "", "null", "[]", "{}":
		return true
	}
	return false
}
