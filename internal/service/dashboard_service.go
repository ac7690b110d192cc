package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-adp-api/internal/models"
	"github.com/noah-isme/tutor-adp-api/internal/repository"
	appErrors "github.com/noah-isme/tutor-adp-api/pkg/errors"
)

const dashboardCacheKey = "dashboard:billing:summary"

type dashboardStudentRepo interface {
	CountByStatus(ctx context.Context) ([]repository.StatusCount, error)
	CountExpiringSoon(ctx context.Context, threshold int) (int, error)
}

type dashboardInvoiceRepo interface {
	List(ctx context.Context, filter models.InvoiceFilter) ([]models.SettlementInvoice, int, error)
	OutstandingBadDebt(ctx context.Context) (int64, error)
}

// DashboardSummary is the billing overview shown on the admin landing screen.
type DashboardSummary struct {
	StudentsByStatus   map[models.StudentStatus]int `json:"students_by_status"`
	ExpiringSoon       int                          `json:"expiring_soon"`
	SettlementCount    int                          `json:"settlement_count"`
	BadDebtCount       int                          `json:"bad_debt_count"`
	OutstandingBadDebt int64                        `json:"outstanding_bad_debt"`
	GeneratedAt        time.Time                    `json:"generated_at"`
}

// DashboardService composes the billing dashboard payload, cached with a TTL.
type DashboardService struct {
	students          dashboardStudentRepo
	invoices          dashboardInvoiceRepo
	cache             *CacheService
	logger            *zap.Logger
	cacheTTL          time.Duration
	expiringThreshold int
	now               func() time.Time
}

// NewDashboardService constructs DashboardService.
func NewDashboardService(students dashboardStudentRepo, invoices dashboardInvoiceRepo, cache *CacheService, logger *zap.Logger, cacheTTL time.Duration, expiringThreshold int) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if expiringThreshold <= 0 {
		expiringThreshold = 5
	}
	return &DashboardService{
		students:          students,
		invoices:          invoices,
		cache:             cache,
		logger:            logger,
		cacheTTL:          cacheTTL,
		expiringThreshold: expiringThreshold,
		now:               func() time.Time { return time.Now().UTC() },
	}
}

// Summary returns the dashboard payload, served from cache when fresh.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	var cached DashboardSummary
	if s.cache.Get(ctx, dashboardCacheKey, &cached) {
		return &cached, nil
	}

	counts, err := s.students.CountByStatus(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to aggregate students")
	}
	byStatus := make(map[models.StudentStatus]int, len(counts))
	for _, c := range counts {
		byStatus[c.Status] = c.Count
	}

	expiring, err := s.students.CountExpiringSoon(ctx, s.expiringThreshold)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count expiring students")
	}

	_, settlementCount, err := s.invoices.List(ctx, models.InvoiceFilter{PageSize: 1})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count settlements")
	}
	_, badDebtCount, err := s.invoices.List(ctx, models.InvoiceFilter{Status: models.InvoiceStatusBadDebt, PageSize: 1})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count bad-debt settlements")
	}

	outstanding, err := s.invoices.OutstandingBadDebt(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum outstanding bad debt")
	}

	summary := &DashboardSummary{
		StudentsByStatus:   byStatus,
		ExpiringSoon:       expiring,
		SettlementCount:    settlementCount,
		BadDebtCount:       badDebtCount,
		OutstandingBadDebt: outstanding,
		GeneratedAt:        s.now(),
	}
	s.cache.Set(ctx, dashboardCacheKey, summary, s.cacheTTL)
	return summary, nil
}

// Invalidate drops the cached summary; called after settlements so the
// dashboard reflects them promptly.
func (s *DashboardService) Invalidate(ctx context.Context) {
	s.cache.Invalidate(ctx, dashboardCacheKey)
}
