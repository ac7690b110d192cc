package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutor-adp-api/internal/billing"
	"github.com/noah-isme/tutor-adp-api/internal/models"
	appErrors "github.com/noah-isme/tutor-adp-api/pkg/errors"
)

type contractRepository interface {
	Create(ctx context.Context, contract *models.Contract, items []models.LineItem) error
	FindByID(ctx context.Context, id string) (*models.ContractDetail, error)
	ListByStudent(ctx context.Context, studentID string) ([]models.Contract, error)
}

type contractStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type discountReader interface {
	ListActive(ctx context.Context) ([]models.Discount, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]models.Discount, error)
}

type contractReconciler interface {
	Reconcile(ctx context.Context, studentID string, now time.Time) (billing.ReconcileAction, error)
}

// CustomDiscountInput is a one-off discount attached directly to a line item.
type CustomDiscountInput struct {
	Name  string `json:"name" validate:"required"`
	Type  string `json:"type" validate:"required,oneof=PERCENT FIXED"`
	Value int64  `json:"value" validate:"gt=0"`
}

// LineItemInput describes one contract entry to be priced.
type LineItemInput struct {
	Description string               `json:"description" validate:"required"`
	Sessions    int                  `json:"sessions" validate:"gt=0"`
	Subtotal    int64                `json:"subtotal" validate:"gte=0"`
	DiscountIDs []string             `json:"discount_ids"`
	Custom      *CustomDiscountInput `json:"custom,omitempty"`
}

// CreateContractRequest describes contract creation.
type CreateContractRequest struct {
	StudentID string          `json:"student_id" validate:"required"`
	Items     []LineItemInput `json:"items" validate:"dive"`
}

// PreviewPricingRequest prices a single line item without persisting anything.
type PreviewPricingRequest struct {
	Subtotal    int64                `json:"subtotal" validate:"gte=0"`
	DiscountIDs []string             `json:"discount_ids"`
	Custom      *CustomDiscountInput `json:"custom,omitempty"`
}

// ContractService prices and persists tuition contracts.
type ContractService struct {
	contracts  contractRepository
	students   contractStudentReader
	discounts  discountReader
	reconciler contractReconciler
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewContractService constructs ContractService.
func NewContractService(contracts contractRepository, students contractStudentReader, discounts discountReader, reconciler contractReconciler, validate *validator.Validate, logger *zap.Logger) *ContractService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContractService{contracts: contracts, students: students, discounts: discounts, reconciler: reconciler, validator: validate, logger: logger}
}

// PreviewPricing applies the requested discount set to a subtotal. Catalog IDs
// that do not resolve to an active discount are skipped rather than failing
// the computation.
func (s *ContractService) PreviewPricing(ctx context.Context, req PreviewPricingRequest) (*billing.ItemPricing, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid pricing payload")
	}
	pricing, err := s.priceItem(ctx, req.Subtotal, req.DiscountIDs, req.Custom)
	if err != nil {
		return nil, err
	}
	return pricing, nil
}

// CreateContract prices every line item, persists the contract atomically
// (items, applied discounts, session credit) and re-runs bad-debt
// reconciliation for the student.
func (s *ContractService) CreateContract(ctx context.Context, req CreateContractRequest, now time.Time) (*models.ContractDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid contract payload")
	}
	if len(req.Items) == 0 {
		return nil, appErrors.ErrEmptyContract
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	items := make([]models.LineItem, 0, len(req.Items))
	totalSessions := 0
	var totalAmount int64
	for _, input := range req.Items {
		pricing, err := s.priceItem(ctx, input.Subtotal, input.DiscountIDs, input.Custom)
		if err != nil {
			return nil, err
		}
		items = append(items, models.LineItem{
			Description:   input.Description,
			Sessions:      input.Sessions,
			Subtotal:      pricing.Subtotal,
			DiscountRatio: pricing.DiscountRatio,
			FinalPrice:    pricing.FinalPrice,
			Discounts:     pricing.Applied,
		})
		totalSessions += input.Sessions
		totalAmount += pricing.FinalPrice
	}

	contract := &models.Contract{
		Code:          fmt.Sprintf("HD-%s-%s", now.Format("20060102"), shortID(student.ID)),
		StudentID:     student.ID,
		TotalSessions: totalSessions,
		TotalAmount:   totalAmount,
		CreatedAt:     now,
	}
	if err := s.contracts.Create(ctx, contract, items); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create contract")
	}

	s.logger.Info("contract created",
		zap.String("student_id", student.ID),
		zap.String("contract_code", contract.Code),
		zap.Int("total_sessions", totalSessions),
		zap.Int64("total_amount", totalAmount))

	if s.reconciler != nil {
		if _, err := s.reconciler.Reconcile(ctx, student.ID, now); err != nil {
			s.logger.Warn("post-contract reconcile failed", zap.String("student_id", student.ID), zap.Error(err))
		}
	}

	detail, err := s.contracts.FindByID(ctx, contract.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contract detail")
	}
	return detail, nil
}

// GetContract returns a contract with its priced line items.
func (s *ContractService) GetContract(ctx context.Context, id string) (*models.ContractDetail, error) {
	detail, err := s.contracts.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "contract not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load contract")
	}
	return detail, nil
}

// ListByStudent returns a student's contracts, newest first.
func (s *ContractService) ListByStudent(ctx context.Context, studentID string) ([]models.Contract, error) {
	contracts, err := s.contracts.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list contracts")
	}
	return contracts, nil
}

// ListDiscounts exposes the active catalog for the pricing screens.
func (s *ContractService) ListDiscounts(ctx context.Context) ([]models.Discount, error) {
	discounts, err := s.discounts.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list discounts")
	}
	return discounts, nil
}

func (s *ContractService) priceItem(ctx context.Context, subtotal int64, discountIDs []string, custom *CustomDiscountInput) (*billing.ItemPricing, error) {
	catalog, err := s.discounts.FindByIDs(ctx, discountIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load discounts")
	}
	selected := make([]models.Discount, 0, len(discountIDs))
	for _, id := range discountIDs {
		d, ok := catalog[id]
		if !ok {
			s.logger.Warn("discount not found, skipping", zap.String("discount_id", id))
			continue
		}
		selected = append(selected, d)
	}

	pricing := billing.ApplyDiscounts(subtotal, selected)
	if custom != nil {
		pricing = billing.SetCustomDiscount(subtotal, pricing.Applied, models.Discount{
			ID:    billing.CustomDiscountPrefix + shortRandom(),
			Name:  custom.Name,
			Type:  models.DiscountType(custom.Type),
			Value: custom.Value,
		})
	}
	return &pricing, nil
}
