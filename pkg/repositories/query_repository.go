package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wilco-ai/wilco-engine/pkg/apperrors"
	"github.com/wilco-ai/wilco-engine/pkg/database"
	"github.com/wilco-ai/wilco-engine/pkg/models"
)

// QueryRepository provides data access for persisted analysis runs.
// History is scoped to the requesting user within the tenant; follow-up
// chains resolve parents through GetByID with the same user scoping.
type QueryRepository interface {
	Create(ctx context.Context, query *models.Query) error
	GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Query, error)
	List(ctx context.Context, userID string, limit, offset int) (*models.QueryPage, error)
	Delete(ctx context.Context, id uuid.UUID, userID string) error
}

type queryRepository struct{}

func NewQueryRepository() QueryRepository {
	return &queryRepository{}
}

var _ QueryRepository = (*queryRepository)(nil)

func (r *queryRepository) Create(ctx context.Context, query *models.Query) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	if query.ID == uuid.Nil {
		query.ID = uuid.New()
	}

	sql := `
		INSERT INTO engine_queries (
			id, tenant_id, user_id, question, domain, domain_confidence,
			snippet, title, result, result_kind,
			dataset_ids, parent_query_id, duration_ms
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at`

	err := scope.Conn.QueryRow(ctx, sql,
		query.ID,
		query.TenantID,
		query.UserID,
		query.Question,
		query.Domain,
		query.DomainConfidence,
		query.Snippet,
		query.Title,
		[]byte(query.Result),
		query.ResultKind,
		query.DatasetIDs,
		query.ParentQueryID,
		query.DurationMs,
	).Scan(&query.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create query: %w", err)
	}

	return nil
}

func (r *queryRepository) GetByID(ctx context.Context, id uuid.UUID, userID string) (*models.Query, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no tenant scope in context")
	}

	sql := `
		SELECT id, tenant_id, user_id, question, domain, domain_confidence,
		       snippet, title, result, result_kind,
		       dataset_ids, parent_query_id, duration_ms, created_at
		FROM engine_queries
		WHERE id = $1 AND user_id = $2`

	query, err := scanQuery(scope.Conn.QueryRow(ctx, sql, id, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get query: %w", err)
	}

	return query, nil
}

func (r *queryRepository) List(ctx context.Context, userID string, limit, offset int) (*models.QueryPage, error) {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return nil, fmt.Errorf("no tenant scope in context")
	}

	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	countSQL := `SELECT COUNT(*) FROM engine_queries WHERE user_id = $1`
	if err := scope.Conn.QueryRow(ctx, countSQL, userID).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count queries: %w", err)
	}

	dataSQL := `
		SELECT id, tenant_id, user_id, question, domain, domain_confidence,
		       snippet, title, result, result_kind,
		       dataset_ids, parent_query_id, duration_ms, created_at
		FROM engine_queries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := scope.Conn.Query(ctx, dataSQL, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list queries: %w", err)
	}
	defer rows.Close()

	page := &models.QueryPage{Total: total}
	for rows.Next() {
		query, err := scanQuery(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan query: %w", err)
		}
		page.Items = append(page.Items, query)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating queries: %w", err)
	}

	return page, nil
}

func (r *queryRepository) Delete(ctx context.Context, id uuid.UUID, userID string) error {
	scope, ok := database.GetTenantScope(ctx)
	if !ok {
		return fmt.Errorf("no tenant scope in context")
	}

	tag, err := scope.Conn.Exec(ctx,
		`DELETE FROM engine_queries WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

func scanQuery(row rowScanner) (*models.Query, error) {
	var query models.Query
	var result []byte

	err := row.Scan(
		&query.ID,
		&query.TenantID,
		&query.UserID,
		&query.Question,
		&query.Domain,
		&query.DomainConfidence,
		&query.Snippet,
		&query.Title,
		&result,
		&query.ResultKind,
		&query.DatasetIDs,
		&query.ParentQueryID,
		&query.DurationMs,
		&query.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	query.Result = result
	query.RowCount = resultRowCount(result)

	return &query, nil
}

// resultRowCount recovers the row count from a stored result payload.
// Array payloads count their elements; objects and scalars count as one.
func resultRowCount(result []byte) int {
	var arr []json.RawMessage
	if err := json.Unmarshal(result, &arr); err == nil {
		return len(arr)
	}
	return 1
}
