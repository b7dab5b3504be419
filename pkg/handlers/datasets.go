package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wilco-ai/wilco-engine/pkg/apperrors"
	"github.com/wilco-ai/wilco-engine/pkg/auth"
	"github.com/wilco-ai/wilco-engine/pkg/models"
	"github.com/wilco-ai/wilco-engine/pkg/services"
	"github.com/wilco-ai/wilco-engine/pkg/tabular"
)

// DatasetListResponse for GET /api/datasets
type DatasetListResponse struct {
	Datasets []*models.Dataset `json:"datasets"`
	Total    int               `json:"total"`
}

// DatasetsHandler handles dataset upload and management requests.
type DatasetsHandler struct {
	datasetService services.DatasetService
	logger         *zap.Logger
}

// NewDatasetsHandler creates a new datasets handler.
func NewDatasetsHandler(datasetService services.DatasetService, logger *zap.Logger) *DatasetsHandler {
	return &DatasetsHandler{
		datasetService: datasetService,
		logger:         logger,
	}
}

// RegisterRoutes registers the dataset handler's routes on the given mux.
func (h *DatasetsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, tenantMiddleware TenantMiddleware) {
	mux.HandleFunc("POST /api/datasets",
		authMiddleware.RequireAuth(tenantMiddleware(h.Upload)))
	mux.HandleFunc("GET /api/datasets",
		authMiddleware.RequireAuth(tenantMiddleware(h.List)))
	mux.HandleFunc("GET /api/datasets/{id}",
		authMiddleware.RequireAuth(tenantMiddleware(h.Get)))
	mux.HandleFunc("DELETE /api/datasets/{id}",
		authMiddleware.RequireAuth(tenantMiddleware(h.Delete)))
}

// Upload handles POST /api/datasets (multipart, field "file").
func (h *DatasetsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "missing_file", "multipart field 'file' is required")
		return
	}
	defer file.Close()

	dataset, err := h.datasetService.Upload(r.Context(), services.DatasetUpload{
		Filename: header.Filename,
		Content:  file,
	})
	if err != nil {
		h.writeUploadError(w, header.Filename, err)
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Data: dataset}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// List handles GET /api/datasets.
func (h *DatasetsHandler) List(w http.ResponseWriter, r *http.Request) {
	datasets, err := h.datasetService.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list datasets", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "list_datasets_failed", err.Error())
		return
	}

	response := DatasetListResponse{Datasets: datasets, Total: len(datasets)}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/datasets/{id}.
func (h *DatasetsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDPathValue(w, r)
	if !ok {
		return
	}

	dataset, err := h.datasetService.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = ErrorResponse(w, http.StatusNotFound, "dataset_not_found", "dataset not found")
			return
		}
		h.logger.Error("Failed to get dataset", zap.String("dataset_id", id.String()), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "get_dataset_failed", err.Error())
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: dataset}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/datasets/{id}.
func (h *DatasetsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDPathValue(w, r)
	if !ok {
		return
	}

	if err := h.datasetService.Delete(r.Context(), id); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			_ = ErrorResponse(w, http.StatusNotFound, "dataset_not_found", "dataset not found")
			return
		}
		h.logger.Error("Failed to delete dataset", zap.String("dataset_id", id.String()), zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "delete_dataset_failed", err.Error())
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "dataset deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

func (h *DatasetsHandler) writeUploadError(w http.ResponseWriter, filename string, err error) {
	var formatErr *tabular.FormatError
	switch {
	case errors.Is(err, apperrors.ErrDuplicateDataset):
		_ = ErrorResponse(w, http.StatusConflict, "duplicate_dataset", err.Error())
	case errors.Is(err, services.ErrUploadTooLarge):
		_ = ErrorResponse(w, http.StatusRequestEntityTooLarge, "upload_too_large", err.Error())
	case errors.As(err, &formatErr):
		_ = ErrorResponse(w, http.StatusUnprocessableEntity, "unreadable_dataset", formatErr.Error())
	default:
		h.logger.Error("Failed to upload dataset",
			zap.String("filename", filename),
			zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "upload_failed", err.Error())
	}
}

// parseIDPathValue parses the {id} path segment as a UUID.
func parseIDPathValue(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_id", "path id must be a UUID")
		return uuid.Nil, false
	}
	return id, true
}
