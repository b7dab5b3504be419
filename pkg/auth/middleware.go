package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Middleware provides HTTP authentication middleware.
// It parses and verifies HS256 bearer tokens and injects the resulting
// claims into the request context.
type Middleware struct {
	secret             []byte
	enableVerification bool
	logger             *zap.Logger
}

// NewMiddleware creates a new auth middleware. When enableVerification is
// false (local development) requests without a token are admitted with a
// fixed local identity.
func NewMiddleware(secret string, enableVerification bool, logger *zap.Logger) *Middleware {
	return &Middleware{
		secret:             []byte(secret),
		enableVerification: enableVerification,
		logger:             logger,
	}
}

// localTenantID is the tenant assigned to unauthenticated local requests.
var localTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// RequireAuth validates the bearer token and requires a valid tenant ID.
// Sets claims and token in context for downstream handlers.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.enableVerification {
			ctx := WithIdentity(r.Context(), localTenantID, "local-user")
			next(w, r.WithContext(ctx))
			return
		}

		claims, token, err := m.validateRequest(r)
		if err != nil {
			m.logger.Debug("Request failed authentication", zap.Error(err))
			m.unauthorized(w, "Authentication required")
			return
		}

		if _, err := uuid.Parse(claims.TenantID); err != nil {
			m.badRequest(w, "Missing tenant ID in token")
			return
		}

		ctx := context.WithValue(r.Context(), ClaimsKey, claims)
		ctx = context.WithValue(ctx, TokenKey, token)
		next(w, r.WithContext(ctx))
	}
}

// validateRequest extracts the bearer token from the Authorization header
// and verifies its signature and expiry.
func (m *Middleware) validateRequest(r *http.Request) (*Claims, string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, "", fmt.Errorf("missing Authorization header")
	}

	tokenString, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return nil, "", fmt.Errorf("Authorization header is not a bearer token")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, "", fmt.Errorf("token validation failed: %w", err)
	}
	if !token.Valid {
		return nil, "", fmt.Errorf("token is not valid")
	}

	return claims, tokenString, nil
}

// unauthorized returns a 401 response with JSON error body.
func (m *Middleware) unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "unauthorized",
		"message": message,
	})
}

// badRequest returns a 400 response with JSON error body.
func (m *Middleware) badRequest(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error":   "bad_request",
		"message": message,
	})
}
