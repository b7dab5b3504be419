package services

import (
	"context"

	"go.uber.org/zap"

	"github.com/wilco-ai/wilco-engine/pkg/auth"
	"github.com/wilco-ai/wilco-engine/pkg/models"
	"github.com/wilco-ai/wilco-engine/pkg/repositories"
)

// SettingsUpdate carries the editable prompt-customization fields.
type SettingsUpdate struct {
	CompanyContext  string            `json:"company_context"`
	AnalystRole     string            `json:"analyst_role"`
	AnalysisRules   string            `json:"analysis_rules"`
	OutputStructure string            `json:"output_structure"`
	TopicContexts   map[string]string `json:"topic_contexts"`
}

// SettingsService manages per-tenant prompt customization.
type SettingsService interface {
	Get(ctx context.Context) (*models.TenantSettings, error)
	Update(ctx context.Context, update SettingsUpdate) (*models.TenantSettings, error)
	Reset(ctx context.Context) (*models.TenantSettings, error)
}

type settingsService struct {
	repo   repositories.SettingsRepository
	logger *zap.Logger
}

func NewSettingsService(repo repositories.SettingsRepository, logger *zap.Logger) SettingsService {
	return &settingsService{
		repo:   repo,
		logger: logger.Named("settings-service"),
	}
}

var _ SettingsService = (*settingsService)(nil)

func (s *settingsService) Get(ctx context.Context) (*models.TenantSettings, error) {
	tenantID, err := auth.RequireTenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.repo.Get(ctx, tenantID)
}

func (s *settingsService) Update(ctx context.Context, update SettingsUpdate) (*models.TenantSettings, error) {
	tenantID, err := auth.RequireTenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	settings := &models.TenantSettings{
		TenantID:        tenantID,
		CompanyContext:  update.CompanyContext,
		AnalystRole:     update.AnalystRole,
		AnalysisRules:   update.AnalysisRules,
		OutputStructure: update.OutputStructure,
		TopicContexts:   update.TopicContexts,
	}
	if settings.TopicContexts == nil {
		settings.TopicContexts = map[string]string{}
	}

	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, err
	}

	s.logger.Info("Tenant settings updated",
		zap.String("tenant_id", tenantID.String()))

	return settings, nil
}

func (s *settingsService) Reset(ctx context.Context) (*models.TenantSettings, error) {
	tenantID, err := auth.RequireTenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Delete(ctx, tenantID); err != nil {
		return nil, err
	}

	s.logger.Info("Tenant settings reset",
		zap.String("tenant_id", tenantID.String()))

	return models.DefaultTenantSettings(tenantID), nil
}
