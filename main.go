package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/wilco-ai/wilco-engine/pkg/auth"
	"github.com/wilco-ai/wilco-engine/pkg/config"
	"github.com/wilco-ai/wilco-engine/pkg/database"
	"github.com/wilco-ai/wilco-engine/pkg/handlers"
	"github.com/wilco-ai/wilco-engine/pkg/llm"
	"github.com/wilco-ai/wilco-engine/pkg/logging"
	"github.com/wilco-ai/wilco-engine/pkg/middleware"
	"github.com/wilco-ai/wilco-engine/pkg/prompts"
	"github.com/wilco-ai/wilco-engine/pkg/repositories"
	"github.com/wilco-ai/wilco-engine/pkg/routing"
	"github.com/wilco-ai/wilco-engine/pkg/sandbox"
	"github.com/wilco-ai/wilco-engine/pkg/services"
	"github.com/wilco-ai/wilco-engine/pkg/tabular"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("environment", cfg.Env),
		zap.String("version", cfg.Version),
		zap.Bool("auth_verification", cfg.Auth.EnableVerification),
		zap.String("database", logging.SanitizeConnectionString(cfg.Database.ConnectionString())),
		zap.String("generation_provider", cfg.Generation.Provider),
		zap.String("generation_model", cfg.Generation.Model))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Migrations run on a plain database/sql handle; the pool below serves
	// request traffic.
	migrationDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open migration connection", zap.Error(err))
	}
	if err := database.RunMigrations(migrationDB, "./migrations", logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = migrationDB.Close()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:             cfg.Database.ConnectionString(),
		MaxConnections:  cfg.Database.MaxConnections,
		MaxConnLifetime: cfg.Database.ConnMaxLifetime(),
		MaxConnIdleTime: cfg.Database.ConnMaxIdleTime(),
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	router, err := routing.NewRouter()
	if err != nil {
		logger.Fatal("Failed to load domain profiles", zap.Error(err))
	}

	client, err := llm.NewGenerator(&cfg.Generation, logger)
	if err != nil {
		logger.Fatal("Failed to create generation client", zap.Error(err))
	}
	generator := llm.NewRetryingGenerator(client, nil, logger)

	datasetRepo := repositories.NewDatasetRepository()
	queryRepo := repositories.NewQueryRepository()
	settingsRepo := repositories.NewSettingsRepository()

	datasetService := services.NewDatasetService(
		datasetRepo,
		tabular.NewLoader(logger),
		router,
		cfg.Datasets.DataDir,
		cfg.Datasets.MaxUploadBytes,
		logger,
	)
	queryService := services.NewQueryService(
		queryRepo,
		settingsRepo,
		datasetService,
		router,
		prompts.NewCompiler(logger),
		generator,
		sandbox.NewExecutor(cfg.Sandbox.ExecutionTimeout(), logger),
		sandbox.NewNormalizer(cfg.Sandbox.MaxResultRows, logger),
		cfg.Generation.MaxOutputTokens,
		logger,
	)
	settingsService := services.NewSettingsService(settingsRepo, logger)

	authMiddleware := auth.NewMiddleware(cfg.Auth.JWTSecret, cfg.Auth.EnableVerification, logger)
	tenantMiddleware := handlers.NewTenantMiddleware(database.NewTenantScopeProvider(db), logger)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cfg, logger)
	healthHandler.RegisterRoutes(mux)

	datasetsHandler := handlers.NewDatasetsHandler(datasetService, logger)
	datasetsHandler.RegisterRoutes(mux, authMiddleware, tenantMiddleware)

	queriesHandler := handlers.NewQueriesHandler(queryService, logger)
	queriesHandler.RegisterRoutes(mux, authMiddleware, tenantMiddleware)

	settingsHandler := handlers.NewSettingsHandler(settingsService, logger)
	settingsHandler.RegisterRoutes(mux, authMiddleware, tenantMiddleware)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting wilco-engine",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
