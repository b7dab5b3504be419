package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	r, err := NewRouter()
	require.NoError(t, err)
	return r
}

func TestClassify(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		name           string
		question       string
		expectedDomain string
	}{
		{
			name:           "business keywords route to business",
			question:       "What was the revenue and average order value for B2C customers?",
			expectedDomain: "business",
		},
		{
			name:           "accounting keywords route to accounting",
			question:       "Which vendor had the highest overhead cost per department?",
			expectedDomain: "accounting",
		},
		{
			name:           "czech accounting phrasing",
			question:       "Kolik jsme zaplatili za energie podle cost center?",
			expectedDomain: "accounting",
		},
		{
			name:           "no signal defaults to business",
			question:       "Tell me something interesting",
			expectedDomain: "business",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := r.Classify(tt.question)
			assert.Equal(t, tt.expectedDomain, result.Domain)
		})
	}
}

func TestClassifyNoSignalConfidence(t *testing.T) {
	r := newTestRouter(t)

	result := r.Classify("xyzzy")
	assert.Equal(t, "business", result.Domain)
	assert.Equal(t, 0.5, result.Confidence)
	assert.Equal(t, 0, result.Scores["business"])
	assert.Equal(t, 0, result.Scores["accounting"])
}

func TestClassifyConfidenceRatio(t *testing.T) {
	r := newTestRouter(t)

	// "revenue" and "sales" are business keywords, "sales" also carries the
	// dataset hint bonus; "cost" is the only accounting signal.
	result := r.Classify("compare revenue and sales against cost")
	assert.Equal(t, "business", result.Domain)
	assert.InDelta(t, 4.0/5.0, result.Confidence, 0.001)
}

func TestClassifyDatasetHintWeight(t *testing.T) {
	r := newTestRouter(t)

	// "ovh" alone carries the dataset hint bonus plus a keyword match.
	result := r.Classify("show me the ovh breakdown")
	assert.Equal(t, "accounting", result.Domain)
	assert.Greater(t, result.Scores["accounting"], 2)
}

func TestReconcileKeepsSatisfiableDomain(t *testing.T) {
	r := newTestRouter(t)

	domain, err := r.Reconcile("accounting", []string{"PL", "Sales"})
	require.NoError(t, err)
	assert.Equal(t, "accounting", domain)
}

func TestReconcileFallsBack(t *testing.T) {
	r := newTestRouter(t)

	domain, err := r.Reconcile("accounting", []string{"Sales", "Documents"})
	require.NoError(t, err)
	assert.Equal(t, "business", domain)
}

func TestReconcileMismatch(t *testing.T) {
	r := newTestRouter(t)

	_, err := r.Reconcile("accounting", []string{"Unrelated"})
	require.Error(t, err)

	var mismatch *MismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "accounting", mismatch.Domain)
	assert.Contains(t, err.Error(), "not loaded")
}
