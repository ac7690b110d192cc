package service

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-adp-api/internal/billing"
	"github.com/noah-isme/tutor-adp-api/internal/models"
	"github.com/noah-isme/tutor-adp-api/internal/repository"
	appErrors "github.com/noah-isme/tutor-adp-api/pkg/errors"
)

type reconcileStudentRepo interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	UpdateBadDebt(ctx context.Context, id string, update repository.BadDebtUpdate) error
}

type reconcileClassReader interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

type reconcileInvoiceReader interface {
	History(ctx context.Context, studentID string) (models.InvoiceHistory, error)
}

// ReconcileService keeps the bad-debt flag consistent with the settlement
// invoice history and raw session counters. It is invoked on every
// student-record change and is safe to run concurrently or redundantly: the
// decision is always recomputed from current state, so repeated invocation
// converges to the same result.
type ReconcileService struct {
	students reconcileStudentRepo
	classes  reconcileClassReader
	invoices reconcileInvoiceReader
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewReconcileService constructs ReconcileService.
func NewReconcileService(students reconcileStudentRepo, classes reconcileClassReader, invoices reconcileInvoiceReader, metrics *MetricsService, logger *zap.Logger) *ReconcileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileService{students: students, classes: classes, invoices: invoices, metrics: metrics, logger: logger}
}

// Reconcile decides and applies the bad-debt action for the student. Missing
// records are not an error: they route to NO_ACTION.
func (s *ReconcileService) Reconcile(ctx context.Context, studentID string, now time.Time) (billing.ReconcileAction, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return billing.ActionNoAction, nil
		}
		return billing.ActionNoAction, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	history, err := s.invoices.History(ctx, studentID)
	if err != nil {
		return billing.ActionNoAction, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load invoice history")
	}

	action := billing.Decide(history, student.AttendedSessions, student.RegisteredSessions)
	if err := s.apply(ctx, student, action, now); err != nil {
		return action, err
	}

	s.metrics.RecordReconcile(string(action))
	s.logger.Debug("reconcile applied",
		zap.String("student_id", studentID),
		zap.String("action", string(action)))
	return action, nil
}

// apply writes the enrollment only when the flag disagrees with the decision,
// so applying the same decision twice produces the same final state.
func (s *ReconcileService) apply(ctx context.Context, student *models.Student, action billing.ReconcileAction, now time.Time) error {
	switch action {
	case billing.ActionKeepBadDebt, billing.ActionAutoSetBadDebt:
		if student.BadDebt {
			return nil
		}
		debtSessions := billing.DebtSessions(student)
		update := repository.BadDebtUpdate{
			Set:      true,
			Sessions: debtSessions,
			Amount:   int64(debtSessions) * s.pricePerSession(ctx, student),
			Date:     now,
			Note:     fmt.Sprintf("Nợ %d buổi", debtSessions),
		}
		if err := s.students.UpdateBadDebt(ctx, student.ID, update); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to set bad debt")
		}
	case billing.ActionClearBadDebt:
		if !student.BadDebt {
			return nil
		}
		if err := s.students.UpdateBadDebt(ctx, student.ID, repository.BadDebtUpdate{Set: false}); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear bad debt")
		}
	case billing.ActionNoAction:
	}
	return nil
}

// pricePerSession resolves the student's class price for the auto-set amount;
// a student without a resolvable class contributes a zero amount rather than
// failing the reconcile.
func (s *ReconcileService) pricePerSession(ctx context.Context, student *models.Student) int64 {
	if student.ClassID == nil || s.classes == nil {
		return 0
	}
	class, err := s.classes.FindByID(ctx, *student.ClassID)
	if err != nil {
		return 0
	}
	return class.PricePerSession
}
