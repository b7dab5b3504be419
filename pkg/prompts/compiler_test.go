package prompts

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wilco-ai/wilco-engine/pkg/models"
	"github.com/wilco-ai/wilco-engine/pkg/tabular"
)

func wideFrame(name string) *tabular.Frame {
	f := tabular.NewFrame(name, []string{"Segment", "01.01.2024", "01.02.2024"})
	f.AppendRow([]any{"B2C", "100", "200"})
	f.InferKinds(",")
	return f
}

func narrowFrame(name string) *tabular.Frame {
	f := tabular.NewFrame(name, []string{"Segment", "Revenue"})
	f.AppendRow([]any{"B2C", "100"})
	f.InferKinds(",")
	return f
}

func TestCompileIncludesDatasetsAndQuestion(t *testing.T) {
	c := NewCompiler(zap.NewNop())

	prompt, err := c.Compile(Input{
		Question: "Tržby podle segmentů v lednu 2024",
		Domain:   "business",
		Frames:   []*tabular.Frame{wideFrame("Sales")},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "Tržby podle segmentů v lednu 2024")
	assert.Contains(t, prompt, "- Sales: 1 rows")
	assert.Contains(t, prompt, "01.01.2024 (monthly)")
	assert.Contains(t, prompt, "CORE RULES")
	assert.Contains(t, prompt, "BUSINESS DATA RULES")
	assert.NotContains(t, prompt, "ACCOUNTING DATA RULES")
}

func TestCompileAccountingVocabulary(t *testing.T) {
	c := NewCompiler(zap.NewNop())

	prompt, err := c.Compile(Input{
		Question: "Náklady podle účtů v lednu 2024",
		Domain:   "accounting",
		Frames:   []*tabular.Frame{wideFrame("PL")},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "ACCOUNTING DATA RULES")
	assert.Contains(t, prompt, "Account class")
}

func TestCompilePeriodGate(t *testing.T) {
	c := NewCompiler(zap.NewNop())

	_, err := c.Compile(Input{
		Question: "Tržby podle segmentů",
		Domain:   "business",
		Frames:   []*tabular.Frame{wideFrame("Sales")},
	})
	require.Error(t, err)

	var periodErr *PeriodRequiredError
	assert.True(t, errors.As(err, &periodErr))
}

func TestCompilePeriodGateSkippedForNarrowData(t *testing.T) {
	c := NewCompiler(zap.NewNop())

	_, err := c.Compile(Input{
		Question: "Tržby podle segmentů",
		Domain:   "business",
		Frames:   []*tabular.Frame{narrowFrame("Sales")},
	})
	assert.NoError(t, err)
}

func TestCompilePeriodGateSkippedForFollowUps(t *testing.T) {
	c := NewCompiler(zap.NewNop())

	_, err := c.Compile(Input{
		Question: "A jen B2B segment?",
		Domain:   "business",
		Frames:   []*tabular.Frame{wideFrame("Sales")},
		Chain: []models.ContextChainEntry{
			{Question: "Tržby v lednu 2024", Snippet: "title := \"x\"\nresult := Sales"},
		},
	})
	assert.NoError(t, err, "follow-ups inherit the parent period")
}

func TestCompileChainContainsParentSnippetVerbatim(t *testing.T) {
	c := NewCompiler(zap.NewNop())
	parentSnippet := "title := \"Tržby leden 2024\"\nsales := Sales\nresult := sales.GroupBySum(\"Segment\", \"01.01.2024\")"

	prompt, err := c.Compile(Input{
		Question: "A jen Česká republika?",
		Domain:   "business",
		Frames:   []*tabular.Frame{wideFrame("Sales")},
		Chain: []models.ContextChainEntry{
			{QueryID: uuid.New(), Question: "Tržby v lednu 2024", Snippet: parentSnippet, RowCount: 2, ResultSummary: "2 segments"},
		},
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, parentSnippet)
	assert.Contains(t, prompt, "Previous question:** Tržby v lednu 2024")
	assert.Contains(t, prompt, "Previous dataset: Sales")
	assert.Contains(t, prompt, "CONTINUE USING THE SAME DATASET")
}

func TestCompileCondensedTemplateForDeepChains(t *testing.T) {
	c := NewCompiler(zap.NewNop())

	chain := []models.ContextChainEntry{
		{Question: "Tržby v roce 2024", Snippet: "result := Sales"},
		{Question: "A jen B2B?", Snippet: "result := Sales"},
		{Question: "A jen Česko?", Snippet: "result := Sales"},
	}

	prompt, err := c.Compile(Input{
		Question: "A po měsících?",
		Domain:   "business",
		Frames:   []*tabular.Frame{wideFrame("Sales")},
		Chain:    chain,
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "MULTI-TURN CHAIN")
	assert.Contains(t, prompt, "Combine ALL filters from ALL previous turns")
	assert.Contains(t, prompt, "1. Tržby v roce 2024")
	assert.Contains(t, prompt, "3. A jen Česko?")
}

func TestCompileTenantOverrides(t *testing.T) {
	c := NewCompiler(zap.NewNop())

	settings := &models.TenantSettings{
		CompanyContext:  "We are a regional electronics retailer.",
		AnalystRole:     "You are the in-house margin specialist.",
		AnalysisRules:   "Always express shares in percent.",
		OutputStructure: "Two columns maximum.",
		TopicContexts: map[string]string{
			"shipping": "AlzaBox is the strategic delivery channel.",
		},
	}

	prompt, err := c.Compile(Input{
		Question: "Shipping breakdown za leden 2024",
		Domain:   "business",
		Frames:   []*tabular.Frame{wideFrame("Sales")},
		Settings: settings,
	})
	require.NoError(t, err)

	assert.Contains(t, prompt, "We are a regional electronics retailer.")
	assert.Contains(t, prompt, "You are the in-house margin specialist.")
	assert.Contains(t, prompt, "Always express shares in percent.")
	assert.Contains(t, prompt, "Two columns maximum.")
	assert.Contains(t, prompt, "AlzaBox is the strategic delivery channel.")
}

func TestHasPeriodToken(t *testing.T) {
	tests := []struct {
		question string
		expected bool
	}{
		{"Tržby v lednu 2024", true},
		{"Revenue for March", true},
		{"Náklady za Q1", true},
		{"Tržby od února", true},
		{"Breakdown podle zemí", false},
		{"Top 10 products", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, hasPeriodToken(tt.question), tt.question)
	}
}
