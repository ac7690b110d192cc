package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-adp-api/internal/service"
	appErrors "github.com/noah-isme/tutor-adp-api/pkg/errors"
	"github.com/noah-isme/tutor-adp-api/pkg/response"
)

// SettlementHandler exposes the debt settlement endpoint.
type SettlementHandler struct {
	settlements *service.SettlementService
	dashboard   *service.DashboardService
}

// NewSettlementHandler constructs SettlementHandler.
func NewSettlementHandler(settlements *service.SettlementService, dashboard *service.DashboardService) *SettlementHandler {
	return &SettlementHandler{settlements: settlements, dashboard: dashboard}
}

// Settle godoc
// @Summary Settle a student's session debt
// @Description Creates the settlement invoice and withdraws the student in one transaction
// @Tags Settlements
// @Accept json
// @Produce json
// @Param payload body service.SettleRequest true "Settlement decision"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /settlements [post]
func (h *SettlementHandler) Settle(c *gin.Context) {
	var req service.SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	invoice, err := h.settlements.Settle(c.Request.Context(), req, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context())
	}
	response.Created(c, invoice)
}
