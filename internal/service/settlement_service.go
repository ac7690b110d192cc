package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/tutor-adp-api/internal/billing"
	"github.com/noah-isme/tutor-adp-api/internal/models"
	"github.com/noah-isme/tutor-adp-api/internal/repository"
	appErrors "github.com/noah-isme/tutor-adp-api/pkg/errors"
)

type settlementStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type settlementClassReader interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type settlementInvoiceWriter interface {
	CreateWithStudentUpdate(ctx context.Context, invoice *models.SettlementInvoice, update repository.SettlementUpdate) error
}

type settlementReconciler interface {
	Reconcile(ctx context.Context, studentID string, now time.Time) (billing.ReconcileAction, error)
}

// SettleRequest describes a debt settlement decision for a student.
type SettleRequest struct {
	StudentID       string `json:"student_id" validate:"required"`
	Decision        string `json:"decision" validate:"required,oneof=PAID BAD_DEBT"`
	Note            string `json:"note"`
	PricePerSession int64  `json:"price_per_session" validate:"gte=0"`
}

// SettlementService closes out a student's session debt: it builds the
// settlement invoice and withdraws the enrollment in one transaction.
type SettlementService struct {
	students   settlementStudentReader
	classes    settlementClassReader
	invoices   settlementInvoiceWriter
	reconciler settlementReconciler
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
	codePrefix string
}

// NewSettlementService constructs SettlementService.
func NewSettlementService(students settlementStudentReader, classes settlementClassReader, invoices settlementInvoiceWriter, reconciler settlementReconciler, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, codePrefix string) *SettlementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if codePrefix == "" {
		codePrefix = "TT"
	}
	return &SettlementService{
		students:   students,
		classes:    classes,
		invoices:   invoices,
		reconciler: reconciler,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
		codePrefix: codePrefix,
	}
}

// Settle computes the settlement invoice for the student's session debt and
// atomically applies the enrollment mutation. Settling a student with no debt
// is rejected before anything is written.
func (s *SettlementService) Settle(ctx context.Context, req SettleRequest, now time.Time) (*models.SettlementInvoice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid settlement payload")
	}

	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	debtSessions := billing.DebtSessions(student)
	if debtSessions <= 0 {
		return nil, appErrors.ErrNoDebt
	}

	className := ""
	pricePerSession := req.PricePerSession
	if student.ClassID != nil {
		class, err := s.classes.FindByID(ctx, *student.ClassID)
		if err != nil {
			if err != sql.ErrNoRows {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
			}
			// dangling class reference: settle with the caller-provided price
		} else {
			className = class.Name
			if pricePerSession == 0 {
				pricePerSession = class.PricePerSession
			}
		}
	}
	if pricePerSession <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "price per session is required when the student has no class")
	}

	totalAmount := int64(debtSessions) * pricePerSession
	decision := models.InvoiceStatus(req.Decision)

	invoice := &models.SettlementInvoice{
		StudentID:        student.ID,
		StudentName:      student.FullName,
		ClassName:        className,
		TotalSessions:    student.RegisteredSessions,
		AttendedSessions: student.AttendedSessions,
		DebtSessions:     debtSessions,
		PricePerSession:  pricePerSession,
		TotalAmount:      totalAmount,
		Status:           decision,
		CreatedAt:        now,
	}

	update := repository.SettlementUpdate{}
	switch decision {
	case models.InvoiceStatusPaid:
		invoice.PaidAmount = totalAmount
		invoice.RemainingAmount = 0
	case models.InvoiceStatusBadDebt:
		invoice.PaidAmount = 0
		invoice.RemainingAmount = totalAmount
		note := req.Note
		if note == "" {
			note = fmt.Sprintf("Nợ %d buổi - Tất toán", debtSessions)
		}
		invoice.Note = &note
		update = repository.SettlementUpdate{
			BadDebt:         true,
			BadDebtSessions: debtSessions,
			BadDebtAmount:   totalAmount,
			BadDebtDate:     now,
			BadDebtNote:     note,
		}
	}

	// one retry with a regenerated code on collision
	for attempt := 0; attempt < 2; attempt++ {
		invoice.Code = s.generateCode(student.ID, now, attempt)
		err = s.invoices.CreateWithStudentUpdate(ctx, invoice, update)
		if err == nil {
			break
		}
		var appErr *appErrors.Error
		if errors.As(err, &appErr) && appErr.Code == appErrors.ErrInvoiceCode.Code && attempt == 0 {
			s.logger.Warn("settlement invoice code collision, regenerating",
				zap.String("student_id", student.ID), zap.String("code", invoice.Code))
			continue
		}
		return nil, appErrors.FromError(err)
	}
	if err != nil {
		return nil, appErrors.FromError(err)
	}

	s.metrics.RecordSettlement(string(decision))
	s.logger.Info("settlement completed",
		zap.String("student_id", student.ID),
		zap.String("invoice_code", invoice.Code),
		zap.String("decision", string(decision)),
		zap.Int("debt_sessions", debtSessions),
		zap.Int64("total_amount", totalAmount))

	if s.reconciler != nil {
		if _, err := s.reconciler.Reconcile(ctx, student.ID, now); err != nil {
			s.logger.Warn("post-settlement reconcile failed", zap.String("student_id", student.ID), zap.Error(err))
		}
	}

	return invoice, nil
}

// generateCode derives a unique invoice code from settlement time and student.
// Retries append random entropy so a same-second collision cannot repeat.
func (s *SettlementService) generateCode(studentID string, now time.Time, attempt int) string {
	short := studentID
	if len(short) > 8 {
		short = short[:8]
	}
	code := fmt.Sprintf("%s-%s-%s", s.codePrefix, now.Format("20060102150405"), short)
	if attempt > 0 {
		buf := make([]byte, 2)
		if _, err := rand.Read(buf); err == nil {
			code = fmt.Sprintf("%s-%s", code, hex.EncodeToString(buf))
		} else {
			code = fmt.Sprintf("%s-%d", code, now.UnixNano()%10000)
		}
	}
	return code
}
