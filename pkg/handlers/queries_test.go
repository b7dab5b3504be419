package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wilco-ai/wilco-engine/pkg/apperrors"
	"github.com/wilco-ai/wilco-engine/pkg/auth"
	"github.com/wilco-ai/wilco-engine/pkg/models"
	"github.com/wilco-ai/wilco-engine/pkg/services"
)

func newQueriesMux(service services.QueryService) *http.ServeMux {
	mux := http.NewServeMux()
	handler := NewQueriesHandler(service, zap.NewNop())
	// Verification disabled: requests run as the local tenant.
	handler.RegisterRoutes(mux, auth.NewMiddleware("", false, zap.NewNop()), passthroughTenant)
	return mux
}

func TestExecuteReturnsPipelineResponse(t *testing.T) {
	var gotReq services.ExecuteRequest
	service := &mockQueryService{
		ExecuteFunc: func(ctx context.Context, req services.ExecuteRequest) (*services.ExecuteResponse, error) {
			gotReq = req
			return &services.ExecuteResponse{
				Success:   true,
				Persisted: true,
				Query:     &models.Query{Question: req.Question, Title: "Tržby za leden"},
			}, nil
		},
	}
	mux := newQueriesMux(service)

	body := `{"question": "Jaké byly tržby v lednu 2024?"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/query/execute", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Jaké byly tržby v lednu 2024?", gotReq.Question)

	var resp services.ExecuteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "Tržby za leden", resp.Query.Title)
}

func TestExecuteUserFacingFailureIsStillOK(t *testing.T) {
	service := &mockQueryService{
		ExecuteFunc: func(ctx context.Context, req services.ExecuteRequest) (*services.ExecuteResponse, error) {
			return &services.ExecuteResponse{
				Success:   false,
				ErrorKind: services.FailurePeriodRequired,
				Error:     "please specify a period",
			}, nil
		},
	}
	mux := newQueriesMux(service)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/query/execute",
		strings.NewReader(`{"question": "tržby podle segmentů"}`)))

	require.Equal(t, http.StatusOK, rec.Code)

	var resp services.ExecuteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, services.FailurePeriodRequired, resp.ErrorKind)
}

func TestExecuteRejectsMissingQuestion(t *testing.T) {
	mux := newQueriesMux(&mockQueryService{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/query/execute", strings.NewReader(`{}`)))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExecuteUnknownParent(t *testing.T) {
	service := &mockQueryService{
		ExecuteFunc: func(ctx context.Context, req services.ExecuteRequest) (*services.ExecuteResponse, error) {
			return nil, apperrors.ErrNotFound
		},
	}
	mux := newQueriesMux(service)

	parentID := uuid.New()
	body := `{"question": "a dál?", "parent_query_id": "` + parentID.String() + `"}`
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/query/execute", strings.NewReader(body)))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHistoryPagination(t *testing.T) {
	var gotLimit, gotOffset int
	service := &mockQueryService{
		HistoryFunc: func(ctx context.Context, limit, offset int) (*models.QueryPage, error) {
			gotLimit, gotOffset = limit, offset
			return &models.QueryPage{Total: 42}, nil
		},
	}
	mux := newQueriesMux(service)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/query/history?limit=5&offset=10", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, gotLimit)
	assert.Equal(t, 10, gotOffset)
}

func TestGetQueryNotFound(t *testing.T) {
	service := &mockQueryService{
		GetFunc: func(ctx context.Context, id uuid.UUID) (*models.Query, error) {
			return nil, apperrors.ErrNotFound
		},
	}
	mux := newQueriesMux(service)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/query/"+uuid.NewString(), nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetQueryInvalidID(t *testing.T) {
	mux := newQueriesMux(&mockQueryService{})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/query/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
