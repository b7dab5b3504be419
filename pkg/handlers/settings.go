package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/wilco-ai/wilco-engine/pkg/auth"
	"github.com/wilco-ai/wilco-engine/pkg/services"
)

// SettingsHandler handles tenant prompt-customization requests.
type SettingsHandler struct {
	settingsService services.SettingsService
	logger          *zap.Logger
}

// NewSettingsHandler creates a new settings handler.
func NewSettingsHandler(settingsService services.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		logger:          logger,
	}
}

// RegisterRoutes registers the settings handler's routes on the given mux.
func (h *SettingsHandler) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware, tenantMiddleware TenantMiddleware) {
	mux.HandleFunc("GET /api/settings",
		authMiddleware.RequireAuth(tenantMiddleware(h.Get)))
	mux.HandleFunc("PUT /api/settings",
		authMiddleware.RequireAuth(tenantMiddleware(h.Update)))
	mux.HandleFunc("DELETE /api/settings",
		authMiddleware.RequireAuth(tenantMiddleware(h.Reset)))
}

// Get handles GET /api/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Get(r.Context())
	if err != nil {
		h.logger.Error("Failed to get settings", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "get_settings_failed", err.Error())
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: settings}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Update handles PUT /api/settings.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req services.SettingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "request body must be valid JSON")
		return
	}

	settings, err := h.settingsService.Update(r.Context(), req)
	if err != nil {
		h.logger.Error("Failed to update settings", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "update_settings_failed", err.Error())
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: settings}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Reset handles DELETE /api/settings, restoring the built-in defaults.
func (h *SettingsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Reset(r.Context())
	if err != nil {
		h.logger.Error("Failed to reset settings", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "reset_settings_failed", err.Error())
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: settings}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
