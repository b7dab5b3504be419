package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/wilco-ai/wilco-engine/pkg/models"
	"github.com/wilco-ai/wilco-engine/pkg/repositories"
	"github.com/wilco-ai/wilco-engine/pkg/tabular"
)

type mockQueryRepository struct {
	CreateFunc  func(ctx context.Context, query *models.Query) error
	GetByIDFunc func(ctx context.Context, id uuid.UUID, userID string) (*models.Query, error)
	ListFunc    func(ctx context.Context, userID string, limit, offset int) (*models.QueryPage, error)
	DeleteFunc  func(ctx context.Context, id uuid.UUID, userID string) error

	CreateCalls int
}

var _ repositories.QueryRepository = (*mockQueryRepository)(nil)

func (m *mockQueryRepository) Create(ctx context.Context, query *models.Query) error {
	m.CreateCalls++
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, query)
	}
	return nil
}

func (m *mockQueryRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Query, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id, userID)
	}
	return nil, nil
}

func (m *mockQueryRepository) List(ctx context.Context, userID string, limit, offset int) (*models.QueryPage, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, userID, limit, offset)
	}
	return &models.QueryPage{}, nil
}

func (m *mockQueryRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, userID)
	}
	return nil
}

type mockSettingsRepository struct {
	GetFunc    func(ctx context.Context, tenantID uuid.UUID) (*models.TenantSettings, error)
	UpsertFunc func(ctx context.Context, settings *models.TenantSettings) error
	DeleteFunc func(ctx context.Context, tenantID uuid.UUID) error
}

var _ repositories.SettingsRepository = (*mockSettingsRepository)(nil)

func (m *mockSettingsRepository) Get(ctx context.Context, tenantID uuid.UUID) (*models.TenantSettings, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, tenantID)
	}
	return models.DefaultTenantSettings(tenantID), nil
}

func (m *mockSettingsRepository) Upsert(ctx context.Context, settings *models.TenantSettings) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, settings)
	}
	return nil
}

func (m *mockSettingsRepository) Delete(ctx context.Context, tenantID uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tenantID)
	}
	return nil
}

type mockDatasetService struct {
	UploadFunc        func(ctx context.Context, upload DatasetUpload) (*models.Dataset, error)
	ListFunc          func(ctx context.Context) ([]*models.Dataset, error)
	GetFunc           func(ctx context.Context, id uuid.UUID) (*models.Dataset, error)
	GetManyFunc       func(ctx context.Context, ids []uuid.UUID) ([]*models.Dataset, error)
	DeleteFunc        func(ctx context.Context, id uuid.UUID) error
	LoadFramesFunc    func(ctx context.Context, datasets []*models.Dataset) ([]*tabular.Frame, error)
	TouchLastUsedFunc func(ctx context.Context, ids []uuid.UUID) error

	TouchCalls int
}

var _ DatasetService = (*mockDatasetService)(nil)

func (m *mockDatasetService) Upload(ctx context.Context, upload DatasetUpload) (*models.Dataset, error) {
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
	if m.GetManyFunc != nil {
		return m.GetManyFunc(ctx, ids)
	}
	return nil, nil
}

func (m *mockDatasetService) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}

func (m *mockDatasetService) LoadFrames(ctx context.Context, datasets []*models.Dataset) ([]*tabular.Frame, error) {
	if m.LoadFramesFunc != nil {
		return m.LoadFramesFunc(ctx, datasets)
	}
	return nil, nil
}

func (m *mockDatasetService) TouchLastUsed(ctx context.Context, ids []uuid.UUID) error {
	m.TouchCalls++
	if m.TouchLastUsedFunc != nil {
		return m.TouchLastUsedFunc(ctx, ids)
	}
	return nil
}

type mockDatasetRepository struct {
	CreateFunc        func(ctx context.Context, dataset *models.Dataset) error
	GetByIDFunc       func(ctx context.Context, id uuid.UUID) (*models.Dataset, error)
	GetByIDsFunc      func(ctx context.Context, ids []uuid.UUID) ([]*models.Dataset, error)
	ListFunc          func(ctx context.Context) ([]*models.Dataset, error)
	TouchLastUsedFunc func(ctx context.Context, ids []uuid.UUID) error
	DeleteFunc        func(ctx context.Context, id uuid.UUID) error
}

var _ repositories.DatasetRepository = (*mockDatasetRepository)(nil)

func (m *mockDatasetRepository) Create(ctx context.Context, dataset *models.Dataset) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, dataset)
	}
	return nil
}

func (m *mockDatasetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Dataset, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockDatasetRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Dataset, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, ids)
	}
	return nil, nil
}

func (m *mockDatasetRepository) List(ctx context.Context) ([]*models.Dataset, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, nil
}

func (m *mockDatasetRepository) TouchLastUsed(ctx context.Context, ids []uuid.UUID) error {
	if m.TouchLastUsedFunc != nil {
		return m.TouchLastUsedFunc(ctx, ids)
	}
	return nil
}

func (m *mockDatasetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil
}
