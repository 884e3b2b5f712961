package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"

	"github.com/uw-nexus/nexus-be/pkg/auth"
	"github.com/uw-nexus/nexus-be/pkg/config"
	"github.com/uw-nexus/nexus-be/pkg/database"
	"github.com/uw-nexus/nexus-be/pkg/handlers"
	"github.com/uw-nexus/nexus-be/pkg/index"
	"github.com/uw-nexus/nexus-be/pkg/middleware"
	"github.com/uw-nexus/nexus-be/pkg/repositories"
	"github.com/uw-nexus/nexus-be/pkg/search"
	"github.com/uw-nexus/nexus-be/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("database", cfg.Database.Database),
		zap.String("search_backend", cfg.Search.Backend))

	ctx := context.Background()

	// Run migrations through the stdlib driver, then open the pool.
	sqlDB, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		logger.Fatal("Failed to open database for migrations", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, cfg.Database.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	_ = sqlDB.Close()

	db, err := database.NewConnection(ctx, &database.Config{
		URL:             cfg.Database.URL(),
		MaxConnections:  cfg.Database.MaxConnections,
		MaxConnLifetime: time.Duration(cfg.Database.ConnLifetimeMinutes) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.Database.ConnIdleMinutes) * time.Minute,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}

	// Repositories
	userRepo := repositories.NewUserRepository(db)
	studentRepo := repositories.NewStudentRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	contractRepo := repositories.NewContractRepository(db)
	saveRepo := repositories.NewSaveRepository(db)
	lookupRepo := repositories.NewLookupRepository(db)

	// Ranking backend and index mirroring per configuration.
	var backend search.Backend
	var indexer services.ProfileIndexer
	switch cfg.Search.Backend {
	case config.SearchBackendIndex:
		client := index.NewClient(redisClient, logger)
		backend = index.NewBackend(client)
		indexer = index.NewSyncer(client)
	default:
		backend = repositories.NewSearchRepository(db)
	}

	// Auth
	authService, err := auth.NewAuthService(&cfg.Auth, logger)
	if err != nil {
		logger.Fatal("Failed to create auth service", zap.Error(err))
	}
	authMiddleware := auth.NewMiddleware(authService, projectRepo, logger)

	// Services
	accountService := services.NewAccountService(userRepo, authService, logger)
	studentService := services.NewStudentService(studentRepo, indexer, logger)
	projectService := services.NewProjectService(projectRepo, indexer, logger)
	contractService := services.NewContractService(contractRepo, projectRepo, logger)
	saveService := services.NewSaveService(saveRepo, logger)
	lookupService := services.NewLookupService(lookupRepo, redisClient, logger)
	searchService := services.NewSearchService(backend, logger)

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAuthHandler(accountService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewStudentHandler(studentService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewProjectHandler(projectService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewContractHandler(contractService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewSavedHandler(saveService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewSearchHandler(searchService, logger).RegisterRoutes(mux, authMiddleware)
	handlers.NewLookupHandler(lookupService, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting nexus-be",
		zap.String("addr", addr),
		zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}

// newLogger builds a production logger except in local development,
// where a human-readable one is friendlier.
func newLogger(env string) (*zap.Logger, error) {
	if env == "local" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
