// Package repositories provides tenant-scoped Postgres data access. Every
// method resolves the tenant scope from the request context; queries run on
// a connection whose app.current_tenant_id is set, so RLS policies do the
// tenant filtering.
package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/wilco-ai/wilco-engine/pkg/apperrors"
	"github.com/wilco-ai/wilco-engine/pkg/database"
	"github.com/wilco-ai/wilco-engine/pkg/models"
)

// DatasetRepository provides data access for uploaded dataset records.
type DatasetRepository interface {
	Create(ctx context.Context, dataset *models.Dataset) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Dataset, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Dataset, error)
	List(ctx context.Context) ([]*models.Dataset, error)
	TouchLastUsed(ctx context.Context, ids []uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type datasetRepository struct{}

func NewDatasetRepository() DatasetRepository {
	return &datasetRepository{}
}

var _ DatasetRepository = (*datasetRepository)(nil)

const datasetColumns = `
	id, tenant_id, name, original_filename, stored_path, content_hash,
	uploaded_by, size_bytes, row_count, column_count, columns, domain,
	encoding, delimiter, last_used_at, created_at, updated_at`

func (r *datasetRepository) Create(ctx context.Context, dataset *models.Dataset) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	if dataset.ID == uuid.Nil {
		dataset.ID = uuid.New()
	}

	columnsJSON, err := json.Marshal(dataset.Columns)
	if err != nil {
		return fmt.Errorf("failed to marshal columns: %w", err)
	}

	query := `
		INSERT INTO engine_datasets (
			id, tenant_id, name, original_filename, stored_path, content_hash,
			uploaded_by, size_bytes, row_count, column_count, columns, domain,
			encoding, delimiter
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING created_at, updated_at`

	err = scope.Conn.QueryRow(ctx, query,
		dataset.ID,
		dataset.TenantID,
		dataset.Name,
		dataset.OriginalFilename,
		dataset.StoredPath,
		dataset.ContentHash,
		dataset.UploadedBy,
		dataset.SizeBytes,
		dataset.RowCount,
		dataset.ColumnCount,
		columnsJSON,
		dataset.Domain,
		dataset.Encoding,
		dataset.Delimiter,
	).Scan(&dataset.CreatedAt, &dataset.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrDuplicateDataset
		}
		return fmt.Errorf("failed to create dataset: %w", err)
	}

	return nil
}

func (r *datasetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Dataset, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no tenant scope in context")
	}

	query := fmt.Sprintf(`SELECT %s FROM engine_datasets WHERE id = $1`, datasetColumns)

	dataset, err := scanDataset(scope.Conn.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get dataset: %w", err)
	}

	return dataset, nil
}

func (r *datasetRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Dataset, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no tenant scope in context")
	}

	query := fmt.Sprintf(`SELECT %s FROM engine_datasets WHERE id = ANY($1) ORDER BY name`, datasetColumns)

	rows, err := scope.Conn.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get datasets: %w", err)
	}
	defer rows.Close()

	datasets, err := collectDatasets(rows)
	if err != nil {
		return nil, err
	}

	if len(datasets) != len(ids) {
		return nil, apperrors.ErrNotFound
	}

	return datasets, nil
}

func (r *datasetRepository) List(ctx context.Context) ([]*models.Dataset, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no tenant scope in context")
	}

	query := fmt.Sprintf(`SELECT %s FROM engine_datasets ORDER BY created_at DESC`, datasetColumns)

	rows, err := scope.Conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	return collectDatasets(rows)
}

func (r *datasetRepository) TouchLastUsed(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	query := `UPDATE engine_datasets SET last_used_at = now(), updated_at = now() WHERE id = ANY($1)`
	if _, err := scope.Conn.Exec(ctx, query, ids); err != nil {
		return fmt.Errorf("failed to touch datasets: %w", err)
	}

	return nil
}

func (r *datasetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	tag, err := scope.Conn.Exec(ctx, `DELETE FROM engine_datasets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDataset(row rowScanner) (*models.Dataset, error) {
	var dataset models.Dataset
	var columnsJSON []byte

	err := row.Scan(
		&dataset.ID,
		&dataset.TenantID,
		&dataset.Name,
		&dataset.OriginalFilename,
		&dataset.StoredPath,
		&dataset.ContentHash,
		&dataset.UploadedBy,
		&dataset.SizeBytes,
		&dataset.RowCount,
		&dataset.ColumnCount,
		&columnsJSON,
		&dataset.Domain,
		&dataset.Encoding,
		&dataset.Delimiter,
		&dataset.LastUsedAt,
		&dataset.CreatedAt,
		&dataset.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(columnsJSON) > 0 {
		if err := json.Unmarshal(columnsJSON, &dataset.Columns); err != nil {
			return nil, fmt.Errorf("failed to unmarshal columns: %w", err)
		}
	}

	return &dataset, nil
}

func collectDatasets(rows pgx.Rows) ([]*models.Dataset, error) {
	var datasets []*models.Dataset
	for rows.Next() {
		dataset, err := scanDataset(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		datasets = append(datasets, dataset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating datasets: %w", err)
	}
	return datasets, nil
}
