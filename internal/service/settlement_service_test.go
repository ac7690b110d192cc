package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tutor-adp-api/internal/billing"
	"github.com/noah-isme/tutor-adp-api/internal/models"
	"github.com/noah-isme/tutor-adp-api/internal/repository"
	appErrors "github.com/noah-isme/tutor-adp-api/pkg/errors"
)

type mockStudentReader struct {
	students map[string]*models.Student
}

func (m *mockStudentReader) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		copy := *s
		return &copy, nil
	}
	return nil, sql.ErrNoRows
}

type mockClassReader struct {
	classes map[string]*models.Class
}

func (m *mockClassReader) FindByID(ctx context.Context, id string) (*models.Class, error) {
	if c, ok := m.classes[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

type mockInvoiceWriter struct {
	created      []*models.SettlementInvoice
	updates      []repository.SettlementUpdate
	failWithCode int // number of leading calls that fail with a code conflict
	calls        int
}

func (m *mockInvoiceWriter) CreateWithStudentUpdate(ctx context.Context, invoice *models.SettlementInvoice, update repository.SettlementUpdate) error {
	m.calls++
	if m.calls <= m.failWithCode {
		return appErrors.ErrInvoiceCode
	}
	saved := *invoice
	m.created = append(m.created, &saved)
	m.updates = append(m.updates, update)
	return nil
}

type mockReconciler struct {
	calls []string
}

func (m *mockReconciler) Reconcile(ctx context.Context, studentID string, now time.Time) (billing.ReconcileAction, error) {
	m.calls = append(m.calls, studentID)
	return billing.ActionNoAction, nil
}

func debtorStudent() *models.Student {
	classID := "class-1"
	return &models.Student{
		ID:                 "stu-1",
		FullName:           "Nguyen Van A",
		Status:             models.StudentStatusDebt,
		ClassID:            &classID,
		RegisteredSessions: 10,
		AttendedSessions:   12,
	}
}

func newSettlementFixture(student *models.Student) (*SettlementService, *mockInvoiceWriter, *mockReconciler) {
	students := &mockStudentReader{students: map[string]*models.Student{}}
	if student != nil {
		students.students[student.ID] = student
	}
	classes := &mockClassReader{classes: map[string]*models.Class{
		"class-1": {ID: "class-1", Name: "Toán 9", PricePerSession: 150_000},
	}}
	invoices := &mockInvoiceWriter{}
	reconciler := &mockReconciler{}
	svc := NewSettlementService(students, classes, invoices, reconciler, nil, nil, nil, "TT")
	return svc, invoices, reconciler
}

func TestSettleComputesDebtInvoice(t *testing.T) {
	svc, invoices, reconciler := newSettlementFixture(debtorStudent())
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	invoice, err := svc.Settle(context.Background(), SettleRequest{StudentID: "stu-1", Decision: "PAID"}, now)
	require.NoError(t, err)

	assert.Equal(t, 2, invoice.DebtSessions)
	assert.Equal(t, int64(300_000), invoice.TotalAmount)
	assert.Equal(t, int64(300_000), invoice.PaidAmount)
	assert.Zero(t, invoice.RemainingAmount)
	assert.Equal(t, models.InvoiceStatusPaid, invoice.Status)
	assert.Equal(t, "Toán 9", invoice.ClassName)
	assert.Equal(t, 10, invoice.TotalSessions)
	assert.Contains(t, invoice.Code, "TT-20250601100000")

	require.Len(t, invoices.created, 1)
	assert.False(t, invoices.updates[0].BadDebt)
	assert.Equal(t, []string{"stu-1"}, reconciler.calls)
}

func TestSettleBadDebtSetsFlagFieldsAndDefaultNote(t *testing.T) {
	svc, invoices, _ := newSettlementFixture(debtorStudent())
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

	invoice, err := svc.Settle(context.Background(), SettleRequest{StudentID: "stu-1", Decision: "BAD_DEBT"}, now)
	require.NoError(t, err)

	assert.Equal(t, models.InvoiceStatusBadDebt, invoice.Status)
	assert.Zero(t, invoice.PaidAmount)
	assert.Equal(t, int64(300_000), invoice.RemainingAmount)
	require.NotNil(t, invoice.Note)
	assert.Equal(t, "Nợ 2 buổi - Tất toán", *invoice.Note)

	require.Len(t, invoices.updates, 1)
	update := invoices.updates[0]
	assert.True(t, update.BadDebt)
	assert.Equal(t, 2, update.BadDebtSessions)
	assert.Equal(t, int64(300_000), update.BadDebtAmount)
	assert.Equal(t, now, update.BadDebtDate)
	assert.Equal(t, "Nợ 2 buổi - Tất toán", update.BadDebtNote)
}

func TestSettleRejectsStudentWithoutDebt(t *testing.T) {
	student := debtorStudent()
	student.AttendedSessions = 8
	svc, invoices, reconciler := newSettlementFixture(student)

	_, err := svc.Settle(context.Background(), SettleRequest{StudentID: "stu-1", Decision: "PAID"}, time.Now())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoDebt.Code, appErrors.FromError(err).Code)
	assert.Empty(t, invoices.created)
	assert.Empty(t, reconciler.calls)
}

func TestSettleRetriesOnceOnCodeCollision(t *testing.T) {
	svc, invoices, _ := newSettlementFixture(debtorStudent())
	invoices.failWithCode = 1

	invoice, err := svc.Settle(context.Background(), SettleRequest{StudentID: "stu-1", Decision: "PAID"}, time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 2, invoices.calls)
	require.Len(t, invoices.created, 1)
	// the retry code carries extra entropy beyond the time+student stem
	assert.Greater(t, len(invoice.Code), len("TT-20060102150405-stu-1"))
}

func TestSettleSurfacesConflictAfterRetryExhausted(t *testing.T) {
	svc, invoices, reconciler := newSettlementFixture(debtorStudent())
	invoices.failWithCode = 2

	_, err := svc.Settle(context.Background(), SettleRequest{StudentID: "stu-1", Decision: "PAID"}, time.Now().UTC())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvoiceCode.Code, appErrors.FromError(err).Code)
	assert.Empty(t, invoices.created)
	assert.Empty(t, reconciler.calls)
}

func TestSettleUnknownStudent(t *testing.T) {
	svc, _, _ := newSettlementFixture(nil)

	_, err := svc.Settle(context.Background(), SettleRequest{StudentID: "missing", Decision: "PAID"}, time.Now())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSettleRequiresPriceWhenNoClass(t *testing.T) {
	student := debtorStudent()
	student.ClassID = nil
	svc, _, _ := newSettlementFixture(student)

	_, err := svc.Settle(context.Background(), SettleRequest{StudentID: "stu-1", Decision: "PAID"}, time.Now())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	invoice, err := svc.Settle(context.Background(), SettleRequest{StudentID: "stu-1", Decision: "PAID", PricePerSession: 120_000}, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(240_000), invoice.TotalAmount)
}
