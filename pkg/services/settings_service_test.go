package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wilco-ai/wilco-engine/pkg/models"
)

func TestSettingsGetDefaultsForNewTenant(t *testing.T) {
	service := NewSettingsService(&mockSettingsRepository{}, zap.NewNop())

	settings, err := service.Get(identityContext())
	require.NoError(t, err)

	assert.Equal(t, testTenantID, settings.TenantID)
	assert.Empty(t, settings.CompanyContext)
	assert.NotNil(t, settings.TopicContexts)
}

func TestSettingsUpdate(t *testing.T) {
	var upserted *models.TenantSettings
	repo := &mockSettingsRepository{
		UpsertFunc: func(ctx context.Context, settings *models.TenantSettings) error {
			upserted = settings
			return nil
		},
	}
	service := NewSettingsService(repo, zap.NewNop())

	settings, err := service.Update(identityContext(), SettingsUpdate{
		CompanyContext: "Elektronický obchod s působností ve střední Evropě.",
		AnalysisRules:  "Vždy odděluj B2B a B2C segmenty.",
		TopicContexts:  map[string]string{"doprava": "Doprava zdarma nad 1000 Kč."},
	})
	require.NoError(t, err)
	require.NotNil(t, upserted)

	assert.Equal(t, testTenantID, settings.TenantID)
	assert.Equal(t, "Vždy odděluj B2B a B2C segmenty.", settings.AnalysisRules)
	assert.Equal(t, "Doprava zdarma nad 1000 Kč.", settings.TopicContexts["doprava"])
}

func TestSettingsUpdateNilTopicContexts(t *testing.T) {
	service := NewSettingsService(&mockSettingsRepository{}, zap.NewNop())

	settings, err := service.Update(identityContext(), SettingsUpdate{})
	require.NoError(t, err)
	assert.NotNil(t, settings.TopicContexts)
}

func TestSettingsReset(t *testing.T) {
	var deleted uuid.UUID
	repo := &mockSettingsRepository{
		DeleteFunc: func(ctx context.Context, tenantID uuid.UUID) error {
			deleted = tenantID
			return nil
		},
	}
	service := NewSettingsService(repo, zap.NewNop())

	settings, err := service.Reset(identityContext())
	require.NoError(t, err)

	assert.Equal(t, testTenantID, deleted)
	assert.Empty(t, settings.AnalystRole)
}
