package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/callmeahab/vessel-tracker-sub000/internal/service"
	"github.com/callmeahab/vessel-tracker-sub000/pkg/response"
)

// BoundaryHandler handles HTTP requests for boundary geometry management
type BoundaryHandler struct {
	service *service.ClassificationService
}

// NewBoundaryHandler creates a new boundary handler
func NewBoundaryHandler(svc *service.ClassificationService) *BoundaryHandler {
	return &BoundaryHandler{service: svc}
}

// GetStatus handles GET /api/v1/boundaries
func (h *BoundaryHandler) GetStatus(c *gin.Context) {
	sets, loadedAt := h.service.BoundaryStatus()
	response.Success(c, gin.H{
		"sets":     sets,
		"loadedAt": loadedAt,
	})
}

// Reload handles POST /api/v1/boundaries/reload
// Rebuilds the boundary index from the configured GeoJSON files and swaps
// it in; runs already in flight keep the snapshot they started with.
func (h *BoundaryHandler) Reload(c *gin.Context) {
	diags, err := h.service.ReloadBoundaries()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	sets, loadedAt := h.service.BoundaryStatus()
	response.Success(c, gin.H{
		"sets":        sets,
		"loadedAt":    loadedAt,
		"diagnostics": diags,
	})
}
