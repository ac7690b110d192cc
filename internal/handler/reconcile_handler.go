package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-adp-api/internal/service"
	appErrors "github.com/noah-isme/tutor-adp-api/pkg/errors"
	"github.com/noah-isme/tutor-adp-api/pkg/response"
)

// ReconcileHandler exposes the bad-debt reconciliation trigger. The attendance
// recorder calls it after mutating session counters.
type ReconcileHandler struct {
	reconciler *service.ReconcileService
	dashboard  *service.DashboardService
}

// NewReconcileHandler constructs ReconcileHandler.
func NewReconcileHandler(reconciler *service.ReconcileService, dashboard *service.DashboardService) *ReconcileHandler {
	return &ReconcileHandler{reconciler: reconciler, dashboard: dashboard}
}

// Reconcile godoc
// @Summary Reconcile a student's bad-debt flag
// @Description Re-derives the bad-debt flag from invoice history and session counters
// @Tags Settlements
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/reconcile [post]
func (h *ReconcileHandler) Reconcile(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student id required"))
		return
	}

	action, err := h.reconciler.Reconcile(c.Request.Context(), id, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}

	if h.dashboard != nil {
		h.dashboard.Invalidate(c.Request.Context())
	}
	response.JSON(c, http.StatusOK, gin.H{"student_id": id, "action": action}, nil)
}
