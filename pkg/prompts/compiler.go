// Package prompts compiles the generation instruction for a question:
// universal execution rules, domain vocabulary, the list of datasets
// actually loaded this request, tenant overrides, and the reconstructed
// context chain for follow-up questions.
package prompts

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/wilco-ai/wilco-engine/pkg/models"
	"github.com/wilco-ai/wilco-engine/pkg/tabular"
)

// parentSnippetDisplayLimit bounds how much of the parent snippet is
// repeated in the context section header. The full snippet is still
// included verbatim below it.
const parentSnippetDisplayLimit = 500

// Input carries everything one compilation needs. Frames are the tables
// actually loaded for this request; Chain is ordered oldest to newest and
// its last entry is the direct parent.
type Input struct {
	Question string
	Domain   string
	Frames   []*tabular.Frame
	Chain    []models.ContextChainEntry
	Settings *models.TenantSettings
}

// Compiler assembles generation prompts. It is stateless; all variance
// comes from the Input.
type Compiler struct {
	logger *zap.Logger
}

// NewCompiler creates a prompt compiler.
func NewCompiler(logger *zap.Logger) *Compiler {
	return &Compiler{logger: logger.Named("prompts")}
}

// Compile builds the full generation prompt. It returns PeriodRequiredError
// without compiling when the loaded tables are wide-format, the question
// names no period, and there is no parent query to inherit one from.
func (c *Compiler) Compile(in Input) (string, error) {
	if err := c.checkPeriod(in); err != nil {
		return "", err
	}

	var b strings.Builder

	b.WriteString(c.roleSection(in))
	b.WriteString("\n\n")

	if ctx := c.companyContext(in); ctx != "" {
		b.WriteString(ctx)
		b.WriteString("\n\n")
	}

	b.WriteString(coreRules)
	b.WriteString("\n\n")

	b.WriteString(vocabularyFor(in.Domain))
	b.WriteString("\n\n")

	if in.Settings != nil && in.Settings.AnalysisRules != "" {
		b.WriteString("## TENANT ANALYSIS RULES:\n\n")
		b.WriteString(in.Settings.AnalysisRules)
		b.WriteString("\n\n")
	}

	var topics map[string]string
	if in.Settings != nil {
		topics = in.Settings.TopicContexts
	}
	for _, topic := range topicContextsFor(in.Question, topics) {
		b.WriteString("## TOPIC CONTEXT:\n\n")
		b.WriteString(topic)
		b.WriteString("\n\n")
	}

	b.WriteString(c.datasetSection(in.Frames))
	b.WriteString("\n\n")

	if len(in.Chain) > 0 {
		b.WriteString(c.chainSection(in))
		b.WriteString("\n\n")
	}

	b.WriteString("## USER QUESTION:\n")
	b.WriteString(in.Question)
	b.WriteString("\n\n")

	if in.Settings != nil && in.Settings.OutputStructure != "" {
		b.WriteString("## REQUIRED OUTPUT STRUCTURE:\n\n")
		b.WriteString(in.Settings.OutputStructure)
		b.WriteString("\n\n")
	}

	b.WriteString(outputInstructions)

	prompt := b.String()
	c.logger.Debug("Compiled prompt",
		zap.String("domain", in.Domain),
		zap.Int("frames", len(in.Frames)),
		zap.Int("chain_depth", len(in.Chain)),
		zap.Int("length", len(prompt)))
	return prompt, nil
}

// checkPeriod short-circuits wide-format questions that name no period.
// A follow-up inherits the parent's period, so chains are exempt.
func (c *Compiler) checkPeriod(in Input) error {
	if len(in.Chain) > 0 || hasPeriodToken(in.Question) {
		return nil
	}
	for _, f := range in.Frames {
		if f.HasWideLayout() {
			c.logger.Debug("Period gate triggered", zap.String("question", in.Question))
			return &PeriodRequiredError{}
		}
	}
	return nil
}

func (c *Compiler) roleSection(in Input) string {
	if in.Settings != nil && in.Settings.AnalystRole != "" {
		return in.Settings.AnalystRole
	}
	if role, ok := defaultAnalystRole[in.Domain]; ok {
		return role
	}
	return defaultAnalystRole["business"]
}

func (c *Compiler) companyContext(in Input) string {
	if in.Settings == nil || in.Settings.CompanyContext == "" {
		return ""
	}
	return "## COMPANY CONTEXT:\n\n" + in.Settings.CompanyContext
}

// datasetSection lists the frames loaded for this request with their
// columns, so the snippet only ever references real identifiers.
func (c *Compiler) datasetSection(frames []*tabular.Frame) string {
	var b strings.Builder
	b.WriteString("## AVAILABLE DATASETS (loaded in memory):\n\n")
	if len(frames) == 0 {
		b.WriteString("(none loaded)\n")
		return b.String()
	}
	for _, f := range frames {
		fmt.Fprintf(&b, "- %s: %d rows\n", f.Name(), f.RowCount())
		cols := f.Columns()
		const maxListed = 30
		listed := cols
		if len(listed) > maxListed {
			listed = listed[:maxListed]
		}
		for _, col := range listed {
			fmt.Fprintf(&b, "    %s (%s)\n", col, f.Kind(col))
		}
		if len(cols) > maxListed {
			fmt.Fprintf(&b, "    ... and %d more month columns\n", len(cols)-maxListed)
		}
	}
	return b.String()
}

// chainSection reconstructs the follow-up context: the question history,
// which dataset the parent snippet used, instructions to stay on it, and
// the parent snippet verbatim. Chains of three or more turns get a
// condensed template stressing that ALL prior filters combine.
func (c *Compiler) chainSection(in Input) string {
	var b strings.Builder
	b.WriteString("## CONTEXT FROM PREVIOUS QUESTIONS:\n\n")

	if len(in.Chain) > 1 {
		b.WriteString("**Question chain (complete history):**\n")
		for i, entry := range in.Chain {
			fmt.Fprintf(&b, "%d. %s\n", i+1, entry.Question)
		}
		b.WriteString("\n")
	}

	parent := in.Chain[len(in.Chain)-1]
	fmt.Fprintf(&b, "**Previous question:** %s\n\n", parent.Question)

	if used := detectDatasetUsed(parent.Snippet, in.Frames); used != "" {
		fmt.Fprintf(&b, "**→ Previous dataset: %s**\n\n", used)
		b.WriteString("**CRITICAL: CONTINUE USING THE SAME DATASET!**\n")
		b.WriteString("- Keep every filter and scope from the previous code unless the new question explicitly broadens it.\n")
		b.WriteString("- DO NOT switch datasets unless the user explicitly asks.\n\n")
	}

	if len(in.Chain) >= 3 {
		b.WriteString("**MULTI-TURN CHAIN:** this is turn ")
		fmt.Fprintf(&b, "%d of a drill-down. Combine ALL filters from ALL previous turns, not only the last one. ", len(in.Chain)+1)
		b.WriteString("Each turn narrows the previous result further.\n\n")
	}

	display := parent.Snippet
	if len(display) > parentSnippetDisplayLimit {
		display = display[:parentSnippetDisplayLimit]
	}
	fmt.Fprintf(&b, "**Previous code (first %d chars):**\n```go\n%s\n```\n\n", parentSnippetDisplayLimit, display)
	fmt.Fprintf(&b, "**Previous code (full):**\n```go\n%s\n```\n", parent.Snippet)

	if parent.ResultSummary != "" {
		fmt.Fprintf(&b, "\n**Previous result (%d rows):** %s\n", parent.RowCount, parent.ResultSummary)
	}
	return b.String()
}

// detectDatasetUsed scans the parent snippet for frame identifiers and
// names the one it referenced. Later mentions win over earlier frames so
// a snippet touching two frames reports the one it grouped on last.
func detectDatasetUsed(snippet string, frames []*tabular.Frame) string {
	best := ""
	bestPos := -1
	for _, f := range frames {
		if pos := strings.LastIndex(snippet, f.Name()); pos > bestPos {
			best = f.Name()
			bestPos = pos
		}
	}
	return best
}
