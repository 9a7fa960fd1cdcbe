package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
	"github.com/callmeahab/vessel-tracker-sub000/internal/service"
	"github.com/callmeahab/vessel-tracker-sub000/pkg/response"
)

// VesselHandler handles HTTP requests for vessel state and history
type VesselHandler struct {
	service *service.ClassificationService
}

// NewVesselHandler creates a new vessel handler
func NewVesselHandler(svc *service.ClassificationService) *VesselHandler {
	return &VesselHandler{service: svc}
}

// GetLatest handles GET /api/v1/vessels/latest
// Returns the classification of every vessel's most recent position plus
// the aggregate zone counters the map overlay consumes.
func (h *VesselHandler) GetLatest(c *gin.Context) {
	results, counters, err := h.service.LatestClassified(c.Request.Context())
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"results":  results,
		"counters": counters,
	})
}

// GetCached handles GET /api/v1/vessels/:registryId/cached
func (h *VesselHandler) GetCached(c *gin.Context) {
	result, err := h.service.CachedResult(c.Request.Context(), c.Param("registryId"))
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}
	if result == nil {
		response.NotFound(c, "No cached classification for vessel")
		return
	}

	response.Success(c, result)
}

// GetPositions handles GET /api/v1/vessels/positions
func (h *VesselHandler) GetPositions(c *gin.Context) {
	var filter models.PositionFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	result, err := h.service.GetPositions(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, result)
}
