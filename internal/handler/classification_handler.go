package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/callmeahab/vessel-tracker-sub000/internal/engine"
	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
	"github.com/callmeahab/vessel-tracker-sub000/internal/service"
	"github.com/callmeahab/vessel-tracker-sub000/pkg/response"
)

// ClassificationHandler handles HTTP requests for classification runs
type ClassificationHandler struct {
	service *service.ClassificationService
}

// NewClassificationHandler creates a new classification handler
func NewClassificationHandler(svc *service.ClassificationService) *ClassificationHandler {
	return &ClassificationHandler{service: svc}
}

type classifyRequest struct {
	Samples []models.VesselSample `json:"samples" binding:"required"`
}

// Classify handles POST /api/v1/classify
func (h *ClassificationHandler) Classify(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	results, diags, err := h.service.Classify(c.Request.Context(), req.Samples)
	if err != nil {
		if errors.Is(err, engine.ErrNoBoundaryIndex) {
			response.Error(c, 503, "Boundary geometry not loaded")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"results":     results,
		"diagnostics": diags,
	})
}

// StartBatch handles POST /api/v1/batches
func (h *ClassificationHandler) StartBatch(c *gin.Context) {
	var req classifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// The run outlives this request; it must not inherit the request context
	run := h.service.StartRun(context.Background(), req.Samples)
	response.Accepted(c, run.Status())
}

// GetBatch handles GET /api/v1/batches/:id
func (h *ClassificationHandler) GetBatch(c *gin.Context) {
	run, ok := h.service.Run(c.Param("id"))
	if !ok {
		response.NotFound(c, "Batch run not found")
		return
	}

	response.Success(c, run.Status())
}

// GetBatchResults handles GET /api/v1/batches/:id/results
func (h *ClassificationHandler) GetBatchResults(c *gin.Context) {
	run, ok := h.service.Run(c.Param("id"))
	if !ok {
		response.NotFound(c, "Batch run not found")
		return
	}

	status := run.Status()
	switch status.State {
	case models.BatchCompleted:
		response.Success(c, gin.H{
			"status":  status,
			"results": run.Results(),
		})
	case models.BatchFailed:
		response.Error(c, 500, status.Error)
	default:
		response.Accepted(c, status)
	}
}
