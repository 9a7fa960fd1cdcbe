package handler

import (
	"database/sql"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/callmeahab/vessel-tracker-sub000/internal/models"
	"github.com/callmeahab/vessel-tracker-sub000/internal/repository"
	"github.com/callmeahab/vessel-tracker-sub000/internal/whitelist"
	"github.com/callmeahab/vessel-tracker-sub000/pkg/response"
)

// WhitelistHandler handles HTTP requests for the exemption whitelist.
// Mutations refresh the in-memory snapshot immediately so the next
// classification run sees them without waiting for the timed refresh.
type WhitelistHandler struct {
	repo  *repository.WhitelistRepository
	store *whitelist.Store
}

// NewWhitelistHandler creates a new whitelist handler
func NewWhitelistHandler(repo *repository.WhitelistRepository, store *whitelist.Store) *WhitelistHandler {
	return &WhitelistHandler{repo: repo, store: store}
}

// GetEntries handles GET /api/v1/whitelist
func (h *WhitelistHandler) GetEntries(c *gin.Context) {
	entries, err := h.repo.GetAll()
	if err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{
		"data":  entries,
		"count": len(entries),
	})
}

type whitelistRequest struct {
	RegistryID string `json:"registryId" binding:"required"`
	VesselName string `json:"vesselName"`
	Owner      string `json:"owner"`
	Reason     string `json:"reason"`
}

// Upsert handles POST /api/v1/whitelist
func (h *WhitelistHandler) Upsert(c *gin.Context) {
	var req whitelistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "registryId is required")
		return
	}

	entry := models.WhitelistEntry{
		RegistryID: req.RegistryID,
		VesselName: req.VesselName,
		Owner:      req.Owner,
		Reason:     req.Reason,
	}

	if err := h.repo.Upsert(entry); err != nil {
		response.InternalError(c, err.Error())
		return
	}

	if err := h.store.Refresh(); err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, entry)
}

// Delete handles DELETE /api/v1/whitelist/:registryId
func (h *WhitelistHandler) Delete(c *gin.Context) {
	registryID := c.Param("registryId")

	if err := h.repo.Delete(registryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.NotFound(c, "Whitelist entry not found")
			return
		}
		response.InternalError(c, err.Error())
		return
	}

	if err := h.store.Refresh(); err != nil {
		response.InternalError(c, err.Error())
		return
	}

	response.Success(c, gin.H{"registryId": registryID})
}
