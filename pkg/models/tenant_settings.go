package models

import (
	"time"

	"github.com/google/uuid"
)

// TenantSettings holds per-tenant prompt customization. Every field is an
// override text block merged into the compiled generation prompt; empty
// fields fall back to built-in defaults.
type TenantSettings struct {
	TenantID uuid.UUID `json:"tenant_id"`

	// CompanyContext describes the tenant's business for the generation
	// service ("we are an electronics retailer...").
	CompanyContext string `json:"company_context"`

	// AnalystRole replaces the default system persona.
	AnalystRole string `json:"analyst_role"`

	// AnalysisRules appends tenant-specific analysis conventions.
	AnalysisRules string `json:"analysis_rules"`

	// OutputStructure replaces the default result-shape instructions.
	OutputStructure string `json:"output_structure"`

	// TopicContexts maps a topic keyword to extra context injected when the
	// question mentions that topic.
	TopicContexts map[string]string `json:"topic_contexts"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultTenantSettings returns settings with every override empty, which
// makes the prompt compiler use its built-in defaults.
func DefaultTenantSettings(tenantID uuid.UUID) *TenantSettings {
	return &TenantSettings{
		TenantID:      tenantID,
		TopicContexts: map[string]string{},
	}
}
