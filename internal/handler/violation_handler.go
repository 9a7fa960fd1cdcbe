package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
	"github.com/callmeahab/vessel-tracker-sub000/internal/service"
	"github.com/callmeahab/vessel-tracker-sub000/pkg/response"
)

// ViolationHandler handles HTTP requests for violation history
type ViolationHandler struct {
	service *service.ClassificationService
}

// NewViolationHandler creates a new violation handler
func NewViolationHandler(svc *service.ClassificationService) *ViolationHandler {
	return &ViolationHandler{service: svc}
}

// GetViolations handles GET /api/v1/violations
func (h *ViolationHandler) GetViolations(c *gin.Context) {
	var filter models.ViolationFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return
	}

	records, total, err := h.service.GetViolations(filter)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"data":     records,
		"total":    total,
		"page":     filter.Page,
		"pageSize": filter.PageSize,
	})
}

// GetSummary handles GET /api/v1/violations/summary
func (h *ViolationHandler) GetSummary(c *gin.Context) {
	startTime, _ := strconv.ParseInt(c.DefaultQuery("startTime", "0"), 10, 64)
	endTime, _ := strconv.ParseInt(c.DefaultQuery("endTime", "0"), 10, 64)

	summary, err := h.service.GetViolationSummary(startTime, endTime)
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, summary)
}
