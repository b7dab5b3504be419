package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/wilco-ai/wilco-engine/pkg/apperrors"
	"github.com/wilco-ai/wilco-engine/pkg/auth"
	"github.com/wilco-ai/wilco-engine/pkg/services"
)

// QueriesHandler handles question execution and query history requests.
type QueriesHandler struct {
	queryService services.QueryService
	logger       *zap.Logger
}

// NewQueriesHandler creates a new queries handler.
func NewQueriesHandler(queryService services.QueryService, logger *zap.Logger) *QueriesHandler {
	return &QueriesHandler{
		queryService: queryService,
		logger:       logger,
	}
}

// RegisterRoutes registers the query handler's routes on the given mux.
func (h *QueriesHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, tenantMiddleware TenantMiddleware) {
	mux.HandleFunc("POST /api/query/execute",
		authMiddleware.RequireAuth(tenantMiddleware(h.Execute)))
	mux.HandleFunc("GET /api/query/history",
		authMiddleware.RequireAuth(tenantMiddleware(h.History)))
	mux.HandleFunc("GET /api/query/{id}",
		authMiddleware.RequireAuth(tenantMiddleware(h.Get)))
	mux.HandleFunc("DELETE /api/query/{id}",
		authMiddleware.RequireAuth(tenantMiddleware(h.Delete)))
}

// Execute handles POST /api/query/execute.
//
// Expected outcomes (domain mismatch, missing period, snippet failure)
// come back as 200 with success=false; only transport and infrastructure
// problems produce error statuses.
func (h *QueriesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	var req services.ExecuteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}
	if req.Question == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "missing_question", "question is required")
		return
	}

	resp, err := h.queryService.Execute(r.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = ErrorResponse(w, http.StatusNotFound, "parent_not_found", "parent query not found")
			return
		}
		h.logger.Error("Query execution failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "execute_failed", err.Error())
		return
	}

	if err := WriteJSON(w, http.StatusOK, resp); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// History handles GET /api/query/history?limit=&offset=.
func (h *QueriesHandler) History(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	page, err := h.queryService.History(r.Context(), limit, offset)
	if err != nil {
		h.logger.Error("Failed to list query history", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "history_failed", err.Error())
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: page}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/query/{id}.
func (h *QueriesHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDPathValue(w, r)
	if !ok {
		return
	}

	query, err := h.queryService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = ErrorResponse(w, http.StatusNotFound, "query_not_found", "query not found")
			return
		}
		h.logger.Error("Failed to get query", zap.String("query_id", id.String()), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "get_query_failed", err.Error())
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: query}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/query/{id}.
func (h *QueriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDPathValue(w, r)
	if !ok {
		return
	}

	if err := h.queryService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = ErrorResponse(w, http.StatusNotFound, "query_not_found", "query not found")
			return
		}
		h.logger.Error("Failed to delete query", zap.String("query_id", id.String()), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "delete_query_failed", err.Error())
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "query deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
