package testhelpers

import (
	"context"
	"testing"
)

func TestEngineDBMigratedSchema(t *testing.T) {
	engineDB := GetEngineDB(t)

	ctx := context.Background()

	for _, table := range []string{"engine_datasets", "engine_queries", "engine_tenant_settings"} {
		var exists bool
		err := engineDB.DB.Pool.QueryRow(ctx,
			"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = $1)",
			table).Scan(&exists)
		if err != nil {
			t.Fatalf("failed to check table %s: %v", table, err)
		}
		if !exists {
			t.Errorf("expected migrated table %s to exist", table)
		}
	}
}

func TestEngineDBRowLevelSecurityEnabled(t *testing.T) {
	engineDB := GetEngineDB(t)

	var enabled bool
	err := engineDB.DB.Pool.QueryRow(context.Background(),
		"SELECT relrowsecurity FROM pg_class WHERE relname = 'engine_datasets'").Scan(&enabled)
	if err != nil {
		t.Fatalf("failed to check row level security: %v", err)
	}
	if !enabled {
		t.Error("expected row level security on engine_datasets")
	}
}
