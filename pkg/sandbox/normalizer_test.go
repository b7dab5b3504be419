package sandbox

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wilco-ai/wilco-engine/pkg/models"
	"github.com/wilco-ai/wilco-engine/pkg/tabular"
)

func TestNormalizeTable(t *testing.T) {
	norm := NewNormalizer(10000, zap.NewNop())

	res, err := norm.Normalize(Table{Frame: testFrames()[0]})
	require.NoError(t, err)

	assert.Equal(t, models.ResultTable, res.Kind)
	assert.Equal(t, 2, res.RowCount)

	var records []map[string]any
	require.NoError(t, json.Unmarshal(res.Result, &records))
	require.Len(t, records, 2)
	assert.Equal(t, "B2C", records[0]["Segment"])
}

func TestNormalizeTableRowCeiling(t *testing.T) {
	frame := tabular.NewFrame("Big", []string{"n"})
	for i := 0; i < 10; i++ {
		frame.AppendRow([]any{i})
	}

	norm := NewNormalizer(3, zap.NewNop())
	res, err := norm.Normalize(Table{Frame: frame})
	require.NoError(t, err)

	assert.Equal(t, 3, res.RowCount)
	var records []map[string]any
	require.NoError(t, json.Unmarshal(res.Result, &records))
	assert.Len(t, records, 3)
}

func TestNormalizeMapping(t *testing.T) {
	norm := NewNormalizer(10000, zap.NewNop())

	tests := []struct {
		name     string
		value    any
		wantRows int
	}{
		{"list counts entries", []any{map[string]any{"a": 1}, map[string]any{"a": 2}}, 2},
		{"map counts as one", map[string]float64{"Q1": 100, "Q2": 200}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := norm.Normalize(Mapping{Value: tt.value})
			require.NoError(t, err)
			assert.Equal(t, models.ResultMapping, res.Kind)
			assert.Equal(t, tt.wantRows, res.RowCount)
		})
	}
}

func TestNormalizeScalar(t *testing.T) {
	norm := NewNormalizer(10000, zap.NewNop())

	res, err := norm.Normalize(Scalar{Value: 1234.5})
	require.NoError(t, err)

	assert.Equal(t, models.ResultScalar, res.Kind)
	assert.Equal(t, 1, res.RowCount)
	assert.JSONEq(t, `{"value": "1234.5"}`, string(res.Result))
}

func TestNormalizeFailure(t *testing.T) {
	norm := NewNormalizer(10000, zap.NewNop())

	_, err := norm.Normalize(Failure{Message: "boom"})
	require.Error(t, err)

	execErr, ok := err.(*ExecutionError)
	require.True(t, ok)
	assert.Equal(t, "boom", execErr.Message)
}

func TestNormalizedIsEmpty(t *testing.T) {
	tests := []struct {
		name string
		res  Normalized
		want bool
	}{
		{"zero rows", Normalized{RowCount: 0, Result: json.RawMessage(`[]`)}, true},
		{"empty object", Normalized{RowCount: 1, Result: json.RawMessage(`{}`)}, true},
		{"null payload", Normalized{RowCount: 1, Result: json.RawMessage(`null`)}, true},
		{"scalar payload", Normalized{RowCount: 1, Result: json.RawMessage(`{"value":"42"}`)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.res.IsEmpty())
		})
	}
}
