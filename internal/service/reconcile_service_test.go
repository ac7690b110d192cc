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
)

type mockReconcileStudentRepo struct {
	student *models.Student
	updates []repository.BadDebtUpdate
}

func (m *mockReconcileStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if m.student == nil || m.student.ID != id {
		return nil, sql.ErrNoRows
	}
	copy := *m.student
	return &copy, nil
}

func (m *mockReconcileStudentRepo) UpdateBadDebt(ctx context.Context, id string, update repository.BadDebtUpdate) error {
	m.updates = append(m.updates, update)
	// mirror the write so repeated reconciles observe the new state
	m.student.BadDebt = update.Set
	return nil
}

type mockHistoryReader struct {
	history models.InvoiceHistory
}

func (m *mockHistoryReader) History(ctx context.Context, studentID string) (models.InvoiceHistory, error) {
	return m.history, nil
}

func newReconcileFixture(student *models.Student, history models.InvoiceHistory) (*ReconcileService, *mockReconcileStudentRepo) {
	students := &mockReconcileStudentRepo{student: student}
	classes := &mockClassReader{classes: map[string]*models.Class{
		"class-1": {ID: "class-1", Name: "Toán 9", PricePerSession: 150_000},
	}}
	svc := NewReconcileService(students, classes, &mockHistoryReader{history: history}, nil, nil)
	return svc, students
}

func TestReconcileClearsFlagOnPaidHistory(t *testing.T) {
	student := &models.Student{ID: "stu-1", RegisteredSessions: 1, AttendedSessions: 2, BadDebt: true}
	svc, students := newReconcileFixture(student, models.InvoiceHistory{HasPaid: true})

	action, err := svc.Reconcile(context.Background(), "stu-1", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, billing.ActionClearBadDebt, action)
	require.Len(t, students.updates, 1)
	assert.False(t, students.updates[0].Set)
}

func TestReconcileKeepsFlagWhenBadDebtInvoiceExists(t *testing.T) {
	student := &models.Student{ID: "stu-1", RegisteredSessions: 10, AttendedSessions: 2, BadDebt: true}
	svc, students := newReconcileFixture(student, models.InvoiceHistory{HasBadDebt: true, HasPaid: true})

	action, err := svc.Reconcile(context.Background(), "stu-1", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, billing.ActionKeepBadDebt, action)
	// flag already set: nothing written
	assert.Empty(t, students.updates)
}

func TestReconcileRestoresFlagWhenBadDebtInvoiceExists(t *testing.T) {
	classID := "class-1"
	student := &models.Student{ID: "stu-1", ClassID: &classID, RegisteredSessions: 10, AttendedSessions: 13, BadDebt: false}
	svc, students := newReconcileFixture(student, models.InvoiceHistory{HasBadDebt: true})

	action, err := svc.Reconcile(context.Background(), "stu-1", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, billing.ActionKeepBadDebt, action)
	require.Len(t, students.updates, 1)
	assert.True(t, students.updates[0].Set)
	assert.Equal(t, 3, students.updates[0].Sessions)
	assert.Equal(t, int64(450_000), students.updates[0].Amount)
}

func TestReconcileAutoSetsFromCounterDrift(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	classID := "class-1"
	student := &models.Student{ID: "stu-1", ClassID: &classID, RegisteredSessions: 12, AttendedSessions: 15}
	svc, students := newReconcileFixture(student, models.InvoiceHistory{})

	action, err := svc.Reconcile(context.Background(), "stu-1", now)
	require.NoError(t, err)
	assert.Equal(t, billing.ActionAutoSetBadDebt, action)
	require.Len(t, students.updates, 1)
	update := students.updates[0]
	assert.True(t, update.Set)
	assert.Equal(t, 3, update.Sessions)
	assert.Equal(t, int64(450_000), update.Amount)
	assert.Equal(t, now, update.Date)
}

func TestReconcileIsIdempotent(t *testing.T) {
	classID := "class-1"
	student := &models.Student{ID: "stu-1", ClassID: &classID, RegisteredSessions: 12, AttendedSessions: 15}
	svc, students := newReconcileFixture(student, models.InvoiceHistory{})

	first, err := svc.Reconcile(context.Background(), "stu-1", time.Now().UTC())
	require.NoError(t, err)
	second, err := svc.Reconcile(context.Background(), "stu-1", time.Now().UTC())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// second run found the flag already set and wrote nothing
	assert.Len(t, students.updates, 1)
}

func TestReconcileNoActionLeavesEnrollmentUntouched(t *testing.T) {
	student := &models.Student{ID: "stu-1", RegisteredSessions: 12, AttendedSessions: 10}
	svc, students := newReconcileFixture(student, models.InvoiceHistory{})

	action, err := svc.Reconcile(context.Background(), "stu-1", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, billing.ActionNoAction, action)
	assert.Empty(t, students.updates)
}

func TestReconcileMissingStudentRoutesToNoAction(t *testing.T) {
	svc, students := newReconcileFixture(nil, models.InvoiceHistory{})

	action, err := svc.Reconcile(context.Background(), "ghost", time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, billing.ActionNoAction, action)
	assert.Empty(t, students.updates)
}
