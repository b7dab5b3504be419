package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wilco-ai/wilco-engine/pkg/auth"
	"github.com/wilco-ai/wilco-engine/pkg/llm"
	"github.com/wilco-ai/wilco-engine/pkg/logging"
	"github.com/wilco-ai/wilco-engine/pkg/models"
	"github.com/wilco-ai/wilco-engine/pkg/prompts"
	"github.com/wilco-ai/wilco-engine/pkg/repositories"
	"github.com/wilco-ai/wilco-engine/pkg/routing"
	"github.com/wilco-ai/wilco-engine/pkg/sandbox"
)

// maxChainDepth bounds how many ancestor queries feed a follow-up prompt.
const maxChainDepth = 5

// ExecuteRequest is one question to run through the pipeline.
type ExecuteRequest struct {
	Question      string      `json:"question"`
	DatasetIDs    []uuid.UUID `json:"dataset_ids,omitempty"`
	ParentQueryID *uuid.UUID  `json:"parent_query_id,omitempty"`
}

// ExecuteResponse reports the pipeline outcome. Success false carries a
// user-facing reason (domain mismatch, missing period, snippet failure)
// rather than a transport error; those conditions are expected outcomes.
type ExecuteResponse struct {
	Success   bool          `json:"success"`
	ErrorKind string        `json:"error_kind,omitempty"`
	Error     string        `json:"error,omitempty"`
	Query     *models.Query `json:"query,omitempty"`
	Persisted bool          `json:"persisted"`
}

// User-facing failure kinds carried in ExecuteResponse.ErrorKind.
const (
	FailureDomainMismatch = "domain_mismatch"
	FailurePeriodRequired = "period_required"
	FailureExecution      = "execution_failed"
)

// QueryService runs the question-to-result pipeline and serves the query
// history built from its successful runs.
type QueryService interface {
	Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResponse, error)
	History(ctx context.Context, limit, offset int) (*models.QueryPage, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Query, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type queryService struct {
	queries  repositories.QueryRepository
	settings repositories.SettingsRepository
	datasets DatasetService

	router     *routing.Router
	compiler   *prompts.Compiler
	generator  llm.Generator
	executor   *sandbox.Executor
	normalizer *sandbox.Normalizer

	maxOutputTokens int
	logger          *zap.Logger
}

func NewQueryService(
	queries repositories.QueryRepository,
	settings repositories.SettingsRepository,
	datasets DatasetService,
	router *routing.Router,
	compiler *prompts.Compiler,
	generator llm.Generator,
	executor *sandbox.Executor,
	normalizer *sandbox.Normalizer,
	maxOutputTokens int,
	logger *zap.Logger,
) QueryService {
	return &queryService{
		queries:         queries,
		settings:        settings,
		datasets:        datasets,
		router:          router,
		compiler:        compiler,
		generator:       generator,
		executor:        executor,
		normalizer:      normalizer,
		maxOutputTokens: maxOutputTokens,
		logger:          logger.Named("query-service"),
	}
}

var _ QueryService = (*queryService)(nil)

func (s *queryService) Execute(ctx context.Context, req ExecuteRequest) (*ExecuteResponse, error) {
	start := time.Now()

	tenantID, err := auth.RequireTenantIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	userID, err := auth.RequireUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}

	datasets, err := s.selectDatasets(ctx, req.DatasetIDs)
	if err != nil {
		return nil, err
	}

	frames, err := s.datasets.LoadFrames(ctx, datasets)
	if err != nil {
		return nil, err
	}

	// Route the question, then reconcile against what actually loaded.
	classified := s.router.Classify(req.Question)
	names := make([]string, len(frames))
	for i, f := range frames {
		names[i] = f.Name()
	}
	domain, err := s.router.Reconcile(classified.Domain, names)
	if err != nil {
		var mismatch *routing.MismatchError
		if errors.As(err, &mismatch) {
			return &ExecuteResponse{
				Success:   false,
				ErrorKind: FailureDomainMismatch,
				Error:     mismatch.Error(),
			}, nil
		}
		return nil, err
	}

	chain, err := s.buildChain(ctx, userID, req.ParentQueryID)
	if err != nil {
		return nil, err
	}

	tenantSettings, err := s.settings.Get(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	prompt, err := s.compiler.Compile(prompts.Input{
		Question: req.Question,
		Domain:   domain,
		Frames:   frames,
		Chain:    chain,
		Settings: tenantSettings,
	})
	if err != nil {
		var periodErr *prompts.PeriodRequiredError
		if errors.As(err, &periodErr) {
			return &ExecuteResponse{
				Success:   false,
				ErrorKind: FailurePeriodRequired,
				Error:     periodErr.Error(),
			}, nil
		}
		return nil, err
	}

	raw, err := s.generator.Generate(ctx, prompt, s.maxOutputTokens)
	if err != nil {
		s.logger.Error("Generation request failed",
			zap.String("reason", logging.SanitizeError(err)))
		return nil, fmt.Errorf("generation failed: %w", err)
	}
	snippet := llm.ExtractSnippet(raw)
	s.logger.Debug("Snippet extracted",
		zap.String("snippet", logging.TruncateSnippet(snippet)))

	execution, err := s.executor.Execute(ctx, snippet, frames)
	if err != nil {
		return s.executionFailure(err)
	}

	normalized, err := s.normalizer.Normalize(execution.Outcome)
	if err != nil {
		return s.executionFailure(err)
	}

	query := &models.Query{
		TenantID:         tenantID,
		UserID:           userID,
		Question:         req.Question,
		Domain:           domain,
		DomainConfidence: classified.Confidence,
		Snippet:          snippet,
		Title:            execution.Title,
		Result:           normalized.Result,
		ResultKind:       normalized.Kind,
		RowCount:         normalized.RowCount,
		DatasetIDs:       datasetIDs(datasets),
		ParentQueryID:    req.ParentQueryID,
		DurationMs:       time.Since(start).Milliseconds(),
	}

	// Empty results are returned to the caller but never persisted; an
	// empty run is not useful context for follow-up questions.
	persisted := false
	if !normalized.IsEmpty() {
		if err := s.queries.Create(ctx, query); err != nil {
			return nil, err
		}
		if err := s.datasets.TouchLastUsed(ctx, query.DatasetIDs); err != nil {
			s.logger.Warn("Failed to update dataset usage", zap.Error(err))
		}
		persisted = true
	}

	s.logger.Info("Query executed",
		zap.String("domain", domain),
		zap.Float64("confidence", classified.Confidence),
		zap.String("result_kind", string(normalized.Kind)),
		zap.Int("row_count", normalized.RowCount),
		zap.Bool("persisted", persisted),
		zap.Int64("duration_ms", query.DurationMs))

	return &ExecuteResponse{Success: true, Query: query, Persisted: persisted}, nil
}

func (s *queryService) History(ctx context.Context, limit, offset int) (*models.QueryPage, error) {
	userID, err := auth.RequireUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.queries.List(ctx, userID, limit, offset)
}

func (s *queryService) Get(ctx context.Context, id uuid.UUID) (*models.Query, error) {
	userID, err := auth.RequireUserIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	return s.queries.GetByID(ctx, id, userID)
}

func (s *queryService) Delete(ctx context.Context, id uuid.UUID) error {
	userID, err := auth.RequireUserIDFromContext(ctx)
	if err != nil {
		return err
	}
	return s.queries.Delete(ctx, id, userID)
}

// selectDatasets resolves the datasets a question runs against: the
// explicitly requested ones, or every dataset the tenant has uploaded.
func (s *queryService) selectDatasets(ctx context.Context, ids []uuid.UUID) ([]*models.Dataset, error) {
	if len(ids) > 0 {
		return s.datasets.GetMany(ctx, ids)
	}
	return s.datasets.List(ctx)
}

// buildChain walks parent links up from the given query, oldest first, so
// the prompt compiler can replay the conversation.
func (s *queryService) buildChain(ctx context.Context, userID string, parentID *uuid.UUID) ([]models.ContextChainEntry, error) {
	if parentID == nil {
		return nil, nil
	}

	var chain []models.ContextChainEntry
	id := parentID
	for id != nil && len(chain) < maxChainDepth {
		parent, err := s.queries.GetByID(ctx, *id, userID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve parent query: %w", err)
		}
		chain = append([]models.ContextChainEntry{{
			QueryID:       parent.ID,
			Question:      parent.Question,
			Snippet:       parent.Snippet,
			ResultSummary: fmt.Sprintf("%s, %d rows", parent.ResultKind, parent.RowCount),
			RowCount:      parent.RowCount,
		}}, chain...)
		id = parent.ParentQueryID
	}

	return chain, nil
}

// executionFailure converts a sandbox failure into a success=false response.
// Anything that is not an ExecutionError is an internal fault.
func (s *queryService) executionFailure(err error) (*ExecuteResponse, error) {
	var execErr *sandbox.ExecutionError
	if errors.As(err, &execErr) {
		s.logger.Warn("Snippet execution failed", zap.String("reason", execErr.Message))
		return &ExecuteResponse{
			Success:   false,
			ErrorKind: FailureExecution,
			Error:     execErr.Message,
		}, nil
	}
	return nil, err
}

func datasetIDs(datasets []*models.Dataset) []uuid.UUID {
	ids := make([]uuid.UUID, len(datasets))
	for i, d := range datasets {
		ids[i] = d.ID
	}
	return ids
}
