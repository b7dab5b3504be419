package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wilco-ai/wilco-engine/pkg/database"
	"github.com/wilco-ai/wilco-engine/pkg/models"
)

// SettingsRepository provides data access for per-tenant prompt settings.
// A tenant with no stored row gets the built-in defaults.
type SettingsRepository interface {
	Get(ctx context.Context, tenantID uuid.UUID) (*models.TenantSettings, error)
	Upsert(ctx context.Context, settings *models.TenantSettings) error
	Delete(ctx context.Context, tenantID uuid.UUID) error
}

type settingsRepository struct{}

func NewSettingsRepository() SettingsRepository {
	return &settingsRepository{}
}

var _ SettingsRepository = (*settingsRepository)(nil)

func (r *settingsRepository) Get(ctx context.Context, tenantID uuid.UUID) (*models.TenantSettings, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no tenant scope in context")
	}

	query := `
		SELECT tenant_id, company_context, analyst_role, analysis_rules,
		       output_structure, topic_contexts, created_at, updated_at
		FROM engine_tenant_settings
		WHERE tenant_id = $1`

	var settings models.TenantSettings
	var topicsJSON []byte

	err := scope.Conn.QueryRow(ctx, query, tenantID).Scan(
		&settings.TenantID,
		&settings.CompanyContext,
		&settings.AnalystRole,
		&settings.AnalysisRules,
		&settings.OutputStructure,
		&topicsJSON,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.DefaultTenantSettings(tenantID), nil
		}
		return nil, fmt.Errorf("failed to get tenant settings: %w", err)
	}

	settings.TopicContexts = map[string]string{}
	if len(topicsJSON) > 0 {
		if err := json.Unmarshal(topicsJSON, &settings.TopicContexts); err != nil {
			return nil, fmt.Errorf("failed to unmarshal topic contexts: %w", err)
		}
	}

	return &settings, nil
}

func (r *settingsRepository) Upsert(ctx context.Context, settings *models.TenantSettings) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	topicsJSON, err := json.Marshal(settings.TopicContexts)
	if err != nil {
		return fmt.Errorf("failed to marshal topic contexts: %w", err)
	}

	query := `
		INSERT INTO engine_tenant_settings (
			tenant_id, company_context, analyst_role, analysis_rules,
			output_structure, topic_contexts
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (tenant_id) DO UPDATE SET
			company_context = EXCLUDED.company_context,
			analyst_role = EXCLUDED.analyst_role,
			analysis_rules = EXCLUDED.analysis_rules,
			output_structure = EXCLUDED.output_structure,
			topic_contexts = EXCLUDED.topic_contexts,
			updated_at = now()
		RETURNING created_at, updated_at`

	err = scope.Conn.QueryRow(ctx, query,
		settings.TenantID,
		settings.CompanyContext,
		settings.AnalystRole,
		settings.AnalysisRules,
		settings.OutputStructure,
		topicsJSON,
	).Scan(&settings.CreatedAt, &settings.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert tenant settings: %w", err)
	}

	return nil
}

func (r *settingsRepository) Delete(ctx context.Context, tenantID uuid.UUID) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	query := `DELETE FROM engine_tenant_settings WHERE tenant_id = $1`
	if _, err := scope.Conn.Exec(ctx, query, tenantID); err != nil {
		return fmt.Errorf("failed to delete tenant settings: %w", err)
	}

	return nil
}
