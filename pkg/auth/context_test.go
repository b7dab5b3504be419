package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserIDFromContext(t *testing.T) {
	tests := []struct {
		name     string
		ctx      context.Context
		expected string
	}{
		{
			name:     "returns subject when claims present",
			ctx:      WithIdentity(context.Background(), uuid.New(), "user-7"),
			expected: "user-7",
		},
		{
			name:     "returns empty without claims",
			ctx:      context.Background(),
			expected: "",
		},
		{
			name:     "returns empty for wrong value type",
			ctx:      context.WithValue(context.Background(), ClaimsKey, "not-claims"),
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetUserIDFromContext(tt.ctx))
		})
	}
}

func TestGetTenantIDFromContext(t *testing.T) {
	tenantID := uuid.New()

	ctx := WithIdentity(context.Background(), tenantID, "user-7")
	assert.Equal(t, tenantID, GetTenantIDFromContext(ctx))

	assert.Equal(t, uuid.Nil, GetTenantIDFromContext(context.Background()))

	badClaims := &Claims{TenantID: "not-a-uuid"}
	ctx = context.WithValue(context.Background(), ClaimsKey, badClaims)
	assert.Equal(t, uuid.Nil, GetTenantIDFromContext(ctx))
}

func TestRequireTenantIDFromContext(t *testing.T) {
	tenantID := uuid.New()

	got, err := RequireTenantIDFromContext(WithIdentity(context.Background(), tenantID, "u"))
	require.NoError(t, err)
	assert.Equal(t, tenantID, got)

	_, err = RequireTenantIDFromContext(context.Background())
	assert.Error(t, err)
}

func TestExtractClaimsFromContext(t *testing.T) {
	tenantID := uuid.New()

	gotTenant, gotUser, err := ExtractClaimsFromContext(WithIdentity(context.Background(), tenantID, "user-9"))
	require.NoError(t, err)
	assert.Equal(t, tenantID, gotTenant)
	assert.Equal(t, "user-9", gotUser)

	_, _, err = ExtractClaimsFromContext(context.Background())
	assert.Error(t, err)

	claims := &Claims{TenantID: tenantID.String()}
	ctx := context.WithValue(context.Background(), ClaimsKey, claims)
	_, _, err = ExtractClaimsFromContext(ctx)
	assert.Error(t, err, "missing subject should fail")
}
