package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/jengzang/visit-tracker-go/internal/models"
	"github.com/jengzang/visit-tracker-go/internal/service"
	"github.com/jengzang/visit-tracker-go/pkg/response"
)

// VisitHandler handles HTTP requests for the viewing session
type VisitHandler struct {
	service *service.VisitService
}

// NewVisitHandler creates a new visit handler
func NewVisitHandler(service *service.VisitService) *VisitHandler {
	return &VisitHandler{service: service}
}

// ReportViewport handles POST /api/v1/viewport
func (h *VisitHandler) ReportViewport(c *gin.Context) {
	var report models.ViewportReport
	if err := c.ShouldBindJSON(&report); err != nil {
		response.BadRequest(c, "Invalid viewport report", err)
		return
	}

	h.service.ReportViewport(report)

	response.Accepted(c, gin.H{
		"zoom":   report.Zoom,
		"bounds": report.Bounds,
	})
}

// GetOverlays handles GET /api/v1/overlays
func (h *VisitHandler) GetOverlays(c *gin.Context) {
	response.Success(c, h.service.GetOverlays())
}

// GetVisitedCells handles GET /api/v1/cells
func (h *VisitHandler) GetVisitedCells(c *gin.Context) {
	cells := h.service.GetVisitedCells()
	response.Success(c, gin.H{
		"cells": cells,
		"count": len(cells),
	})
}

// GetStats handles GET /api/v1/stats
func (h *VisitHandler) GetStats(c *gin.Context) {
	response.Success(c, h.service.GetStats())
}

// GetViewerConfig handles GET /api/v1/viewer-config
func (h *VisitHandler) GetViewerConfig(c *gin.Context) {
	response.Success(c, h.service.GetViewerConfig())
}
