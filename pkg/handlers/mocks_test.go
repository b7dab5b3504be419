package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/wilco-ai/wilco-engine/pkg/models"
	"github.com/wilco-ai/wilco-engine/pkg/services"
	"github.com/wilco-ai/wilco-engine/pkg/tabular"
)

// passthroughTenant skips the database scope; repository calls are mocked.
func passthroughTenant(next http.HandlerFunc) http.HandlerFunc {
	return next
}

type mockQueryService struct {
	ExecuteFunc func(ctx context.Context, req services.ExecuteRequest) (*services.ExecuteResponse, error)
	HistoryFunc func(ctx context.Context, limit, offset int) (*models.QueryPage, error)
	GetFunc     func(ctx context.Context, id uuid.UUID) (*models.Query, error)
	DeleteFunc  func(ctx context.Context, id uuid.UUID) error
}

var _ services.QueryService = (*mockQueryService)(nil)

func (m *mockQueryService) Execute(ctx context.Context, req services.ExecuteRequest) (*services.ExecuteResponse, error) {
	if m.ExecuteFunc != nil {
		return m.ExecuteFunc(ctx, req)
	}
	return &services.ExecuteResponse{Success: true}, nil
}

func (m *mockQueryService) History(ctx context.Context, limit, offset int) (*models.QueryPage, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, limit, offset)
	}
	return &models.QueryPage{}, nil
}

func (m *mockQueryService) Get(ctx context.Context, id uuid.UUID) (*models.Query, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockQueryService) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

type mockDatasetService struct {
	UploadFunc func(ctx context.Context, upload services.DatasetUpload) (*models.Dataset, error)
	ListFunc   func(ctx context.Context) ([]*models.Dataset, error)
	GetFunc    func(ctx context.Context, id uuid.UUID) (*models.Dataset, error)
	DeleteFunc func(ctx context.Context, id uuid.UUID) error
}

var _ services.DatasetService = (*mockDatasetService)(nil)

func (m *mockDatasetService) Upload(ctx context.Context, upload services.DatasetUpload) (*models.Dataset, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, upload)
	}
	return nil, nil
}

func (m *mockDatasetService) List(ctx context.Context) ([]*models.Dataset, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockDatasetService) Get(ctx context.Context, id uuid.UUID) (*models.Dataset, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockDatasetService) GetMany(ctx context.Context, ids []uuid.UUID) ([]*models.Dataset, error) {
	return nil, nil
}

func (m *mockDatasetService) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockDatasetService) LoadFrames(ctx context.Context, datasets []*models.Dataset) ([]*tabular.Frame, error) {
	return nil, nil
}

func (m *mockDatasetService) TouchLastUsed(ctx context.Context, ids []uuid.UUID) error {
	return nil
}

type mockSettingsService struct {
	GetFunc    func(ctx context.Context) (*models.TenantSettings, error)
	UpdateFunc func(ctx context.Context, update services.SettingsUpdate) (*models.TenantSettings, error)
	ResetFunc  func(ctx context.Context) (*models.TenantSettings, error)
}

var _ services.SettingsService = (*mockSettingsService)(nil)

func (m *mockSettingsService) Get(ctx context.Context) (*models.TenantSettings, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx)
	}
	return models.DefaultTenantSettings(uuid.Nil), nil
}

func (m *mockSettingsService) Update(ctx context.Context, update services.SettingsUpdate) (*models.TenantSettings, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, update)
	}
	return models.DefaultTenantSettings(uuid.Nil), nil
}

func (m *mockSettingsService) Reset(ctx context.Context) (*models.TenantSettings, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx)
	}
	return models.DefaultTenantSettings(uuid.Nil), nil
}
