package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/callmeahab/vessel-tracker-sub000/internal/config"
	"github.com/callmeahab/vessel-tracker-sub000/internal/handler"
	"github.com/callmeahab/vessel-tracker-sub000/internal/metrics"
	"github.com/callmeahab/vessel-tracker-sub000/internal/middleware"
	"github.com/callmeahab/vessel-tracker-sub000/internal/repository"
	"github.com/callmeahab/vessel-tracker-sub000/internal/service"
	"github.com/callmeahab/vessel-tracker-sub000/internal/whitelist"
)

// SetupRouter builds the HTTP router
func SetupRouter(cfg *config.Config, svc *service.ClassificationService, wlRepo *repository.WhitelistRepository, wlStore *whitelist.Store) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())

	// CORS for the map frontend
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Vessel geofencing service is running",
		})
	})

	r.GET("/metrics", metrics.Handler())

	classificationHandler := handler.NewClassificationHandler(svc)
	vesselHandler := handler.NewVesselHandler(svc)
	violationHandler := handler.NewViolationHandler(svc)
	boundaryHandler := handler.NewBoundaryHandler(svc)
	whitelistHandler := handler.NewWhitelistHandler(wlRepo, wlStore)

	auth := middleware.JWTAuth(cfg.JWTSecret)

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(300, time.Minute))
	{
		api.POST("/classify", classificationHandler.Classify)

		batches := api.Group("/batches")
		{
			batches.POST("", classificationHandler.StartBatch)
			batches.GET("/:id", classificationHandler.GetBatch)
			batches.GET("/:id/results", classificationHandler.GetBatchResults)
		}

		vessels := api.Group("/vessels")
		{
			vessels.GET("/latest", vesselHandler.GetLatest)
			vessels.GET("/positions", vesselHandler.GetPositions)
			vessels.GET("/:registryId/cached", vesselHandler.GetCached)
		}

		violations := api.Group("/violations")
		{
			violations.GET("", violationHandler.GetViolations)
			violations.GET("/summary", violationHandler.GetSummary)
		}

		boundaries := api.Group("/boundaries")
		{
			boundaries.GET("", boundaryHandler.GetStatus)
			boundaries.POST("/reload", auth, boundaryHandler.Reload)
		}

		wl := api.Group("/whitelist")
		{
			wl.GET("", whitelistHandler.GetEntries)
			wl.POST("", auth, whitelistHandler.Upsert)
			wl.DELETE("/:registryId", auth, whitelistHandler.Delete)
		}
	}

	return r
}
