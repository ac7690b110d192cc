package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/tutor-adp-api/internal/models"
	"github.com/noah-isme/tutor-adp-api/internal/service"
	appErrors "github.com/noah-isme/tutor-adp-api/pkg/errors"
	"github.com/noah-isme/tutor-adp-api/pkg/response"
)

// InvoiceHandler exposes settlement invoice endpoints.
type InvoiceHandler struct {
	invoices *service.InvoiceService
}

// NewInvoiceHandler constructs InvoiceHandler.
func NewInvoiceHandler(invoices *service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoices: invoices}
}

func invoiceFilterFromQuery(c *gin.Context) models.InvoiceFilter {
	var filter models.InvoiceFilter
	filter.StudentID = c.Query("studentId")
	filter.Status = models.InvoiceStatus(c.Query("status"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")
	return filter
}

// List godoc
// @Summary List settlement invoices
// @Tags Invoices
// @Produce json
// @Param studentId query string false "Filter by student"
// @Param status query string false "Filter by status (PAID or BAD_DEBT)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /invoices [get]
func (h *InvoiceHandler) List(c *gin.Context) {
	invoices, pagination, err := h.invoices.List(c.Request.Context(), invoiceFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, invoices, pagination)
}

// Export godoc
// @Summary Export settlement invoices
// @Description Streams the filtered invoices as a CSV or PDF file
// @Tags Invoices
// @Produce octet-stream
// @Param format query string false "Export format (csv or pdf)" default(csv)
// @Param studentId query string false "Filter by student"
// @Param status query string false "Filter by status"
// @Success 200 {file} binary
// @Router /invoices/export [get]
func (h *InvoiceHandler) Export(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	if format != service.ExportFormatCSV && format != service.ExportFormatPDF {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "unsupported export format"))
		return
	}

	result, err := h.invoices.Export(c.Request.Context(), invoiceFilterFromQuery(c), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
