package main

import (
	"context"
	"log"

	"github.com/callmeahab/vessel-tracker-sub000/internal/api"
	"github.com/callmeahab/vessel-tracker-sub000/internal/boundary"
	"github.com/callmeahab/vessel-tracker-sub000/internal/cache"
	"github.com/callmeahab/vessel-tracker-sub000/internal/config"
	"github.com/callmeahab/vessel-tracker-sub000/internal/database"
	"github.com/callmeahab/vessel-tracker-sub000/internal/engine"
	"github.com/callmeahab/vessel-tracker-sub000/internal/ingest"
	"github.com/callmeahab/vessel-tracker-sub000/internal/repository"
	"github.com/callmeahab/vessel-tracker-sub000/internal/service"
	"github.com/callmeahab/vessel-tracker-sub000/internal/whitelist"
)

func main() {
	cfg := config.Load()

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close()
	db := database.GetDB()

	// Boundary geometry; missing sets are warnings, the engine degrades
	idx, diags := boundary.LoadIndex(cfg.GeometryPaths)
	for _, d := range diags {
		log.Printf("[Boundary] %s: %s", d.Level, d.Message)
	}
	boundaries := boundary.NewStore(idx)

	positionRepo := repository.NewPositionRepository(db)
	violationRepo := repository.NewViolationRepository(db)
	whitelistRepo := repository.NewWhitelistRepository(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wlStore := whitelist.NewStore(whitelistRepo)
	if err := wlStore.Refresh(); err != nil {
		log.Printf("[Whitelist] Initial load failed: %v", err)
	}
	wlStore.StartRefreshLoop(ctx, cfg.WhitelistRefreshInterval)

	resultCache := cache.New(cfg.RedisAddr, cfg.RedisPassword, cfg.CacheTTL)
	defer resultCache.Close()

	classifier := engine.NewClassifier(cfg.Thresholds)
	orchestrator := engine.NewOrchestrator(classifier, cfg.ChunkSize)

	svc := service.NewClassificationService(
		orchestrator, boundaries, wlStore,
		positionRepo, violationRepo, resultCache,
		cfg.GeometryPaths,
	)

	if cfg.PositionAPIURL != "" {
		provider := ingest.NewHTTPProvider(cfg.PositionAPIURL)
		ingest.NewScheduler(provider, svc, cfg.PollInterval).Start(ctx)
	} else {
		log.Printf("[Ingest] POSITION_API_URL not set, scheduler disabled")
	}

	router := api.SetupRouter(cfg, svc, whitelistRepo, wlStore)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
