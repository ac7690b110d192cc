package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-adp-api/internal/models"
	appErrors "github.com/noah-isme/tutor-adp-api/pkg/errors"
	"github.com/noah-isme/tutor-adp-api/pkg/export"
)

type invoiceLister interface {
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.SettlementInvoice, int, error)
}

// ExportFormat selects the settlement-invoice export rendering.
type ExportFormat string

// Supported export formats.
const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportResult carries rendered bytes with their content type and filename.
type ExportResult struct {
	ContentType string
	Filename    string
	Data        []byte
}

// InvoiceService exposes the settlement-invoice history.
type InvoiceService struct {
	invoices invoiceLister
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewInvoiceService constructs InvoiceService.
func NewInvoiceService(invoices invoiceLister, logger *zap.Logger) *InvoiceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceService{
		invoices: invoices,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// List returns settlement invoices with pagination metadata.
func (s *InvoiceService) List(ctx context.Context, filter models.InvoiceFilter) ([]models.SettlementInvoice, *models.Pagination, error) {
	invoices, total, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list settlement invoices")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return invoices, pagination, nil
}

// Export renders the filtered settlement invoices as CSV or PDF.
func (s *InvoiceService) Export(ctx context.Context, filter models.InvoiceFilter, format ExportFormat) (*ExportResult, error) {
	// exports ignore pagination and pull the filtered set in one page
	filter.Page = 1
	filter.PageSize = 100
	invoices, _, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load settlement invoices")
	}

	dataset := export.Dataset{
		Headers: []string{"Code", "Student", "Class", "Debt Sessions", "Price/Session", "Total", "Paid", "Remaining", "Status", "Date"},
		Rows:    make([]map[string]string, 0, len(invoices)),
	}
	for _, inv := range invoices {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Code":          inv.Code,
			"Student":       inv.StudentName,
			"Class":         inv.ClassName,
			"Debt Sessions": strconv.Itoa(inv.DebtSessions),
			"Price/Session": strconv.FormatInt(inv.PricePerSession, 10),
			"Total":         strconv.FormatInt(inv.TotalAmount, 10),
			"Paid":          strconv.FormatInt(inv.PaidAmount, 10),
			"Remaining":     strconv.FormatInt(inv.RemainingAmount, 10),
			"Status":        string(inv.Status),
			"Date":          inv.CreatedAt.Format("2006-01-02"),
		})
	}

	stamp := time.Now().UTC().Format("20060102")
	switch format {
	case ExportFormatPDF:
		data, err := s.pdf.Render(dataset, "Settlement Invoices")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("settlement-invoices-%s.pdf", stamp),
			Data:        data,
		}, nil
	case ExportFormatCSV:
		data, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("settlement-invoices-%s.csv", stamp),
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", strings.TrimSpace(string(format))))
	}
}
