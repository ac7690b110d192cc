package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-adp-api/internal/service"
	appErrors "github.com/noah-isme/tutor-adp-api/pkg/errors"
	"github.com/noah-isme/tutor-adp-api/pkg/response"
)

// ContractHandler exposes tuition contract endpoints.
type ContractHandler struct {
	contracts *service.ContractService
}

// NewContractHandler constructs ContractHandler.
func NewContractHandler(contracts *service.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

// PreviewPricing godoc
// @Summary Preview line-item pricing with discounts applied
// @Tags Contracts
// @Accept json
// @Produce json
// @Param payload body service.PreviewPricingRequest true "Pricing payload"
// @Success 200 {object} response.Envelope
// @Router /contracts/preview [post]
func (h *ContractHandler) PreviewPricing(c *gin.Context) {
	var req service.PreviewPricingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	pricing, err := h.contracts.PreviewPricing(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, pricing, nil)
}

// Create godoc
// @Summary Create tuition contract
// @Tags Contracts
// @Accept json
// @Produce json
// @Param payload body service.CreateContractRequest true "Contract payload"
// @Success 201 {object} response.Envelope
// @Router /contracts [post]
func (h *ContractHandler) Create(c *gin.Context) {
	var req service.CreateContractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	contract, err := h.contracts.CreateContract(c.Request.Context(), req, time.Now())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, contract)
}

// Get godoc
// @Summary Get contract detail with line items
// @Tags Contracts
// @Produce json
// @Param id path string true "Contract ID"
// @Success 200 {object} response.Envelope
// @Router /contracts/{id} [get]
func (h *ContractHandler) Get(c *gin.Context) {
	contract, err := h.contracts.GetContract(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, contract, nil)
}

// ListByStudent godoc
// @Summary List a student's contracts
// @Tags Contracts
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/contracts [get]
func (h *ContractHandler) ListByStudent(c *gin.Context) {
	contracts, err := h.contracts.ListByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, contracts, nil)
}

// ListDiscounts godoc
// @Summary List active catalog discounts
// @Tags Discounts
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /discounts [get]
func (h *ContractHandler) ListDiscounts(c *gin.Context) {
	discounts, err := h.contracts.ListDiscounts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, discounts, nil)
}
