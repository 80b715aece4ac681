package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/apper-apps/scholar-array-protocol/internal/middleware"
	"github.com/apper-apps/scholar-array-protocol/internal/models"
	appErrors "github.com/apper-apps/scholar-array-protocol/pkg/errors"
	"github.com/apper-apps/scholar-array-protocol/pkg/response"
)

type dashboardService interface {
	Overview(ctx context.Context) (*models.DashboardOverview, bool, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Overview godoc
// @Summary Dashboard overview
// @Description Totals, overall average and attendance rate, recent grades and top students.
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Overview(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	overview, cacheHit, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, overview, nil, middleware.ResponseMeta(c))
}
