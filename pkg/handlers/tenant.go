package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/wilco-ai/wilco-engine/pkg/auth"
	"github.com/wilco-ai/wilco-engine/pkg/database"
)

// NewTenantMiddleware builds the middleware that opens a tenant-scoped
// database connection for each request. It runs after auth, which puts the
// tenant identity into the context.
func NewTenantMiddleware(provider *database.TenantScopeProvider, logger *zap.Logger) TenantMiddleware {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			tenantID, err := auth.RequireTenantIDFromContext(r.Context())
			if err != nil {
				_ = ErrorResponse(w, http.StatusUnauthorized, "missing_tenant", err.Error())
				return
			}

			ctx, cleanup, err := provider.WithTenantScope(r.Context(), tenantID)
			if err != nil {
				logger.Error("Failed to open tenant scope",
					zap.String("tenant_id", tenantID.String()),
					zap.Error(err))
				_ = ErrorResponse(w, http.StatusInternalServerError, "tenant_scope_failed", "database unavailable")
				return
			}
			defer cleanup()

			next(w, r.WithContext(ctx))
		}
	}
}
