package service

import (
	"context"
	"database/sql"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/tutor-adp-api/internal/billing"
	"github.com/noah-isme/tutor-adp-api/internal/models"
	appErrors "github.com/noah-isme/tutor-adp-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
	FindDetailByID(ctx context.Context, id string) (*models.StudentDetail, error)
}

type studentClassReader interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

// StudentLedgerView enriches a student with figures derived from the session
// counters.
type StudentLedgerView struct {
	models.StudentDetail
	RemainingSessions int  `json:"remaining_sessions"`
	DebtSessions      int  `json:"debt_sessions"`
	ExpiringSoon      bool `json:"expiring_soon"`
	InDebt            bool `json:"in_debt"`
}

// StudentProjection is the schedule-aware expected end of a student's paid
// sessions.
type StudentProjection struct {
	StudentID         string    `json:"student_id"`
	RemainingSessions int       `json:"remaining_sessions"`
	ExpectedEndDate   time.Time `json:"expected_end_date"`
}

// StudentService exposes the enrollment read model.
type StudentService struct {
	students          studentRepository
	classes           studentClassReader
	logger            *zap.Logger
	expiringThreshold int
}

// NewStudentService constructs StudentService.
func NewStudentService(students studentRepository, classes studentClassReader, logger *zap.Logger, expiringThreshold int) *StudentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if expiringThreshold <= 0 {
		expiringThreshold = billing.DefaultExpiringThreshold
	}
	return &StudentService{students: students, classes: classes, logger: logger, expiringThreshold: expiringThreshold}
}

// List returns students with pagination metadata and ledger-derived fields.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]StudentLedgerView, *models.Pagination, error) {
	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	views := make([]StudentLedgerView, len(students))
	for i, detail := range students {
		views[i] = s.view(detail)
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
	return views, pagination, nil
}

// Get returns one student with ledger-derived fields.
func (s *StudentService) Get(ctx context.Context, id string) (*StudentLedgerView, error) {
	detail, err := s.students.FindDetailByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	view := s.view(*detail)
	return &view, nil
}

// ProjectEndDate projects when the student's remaining paid sessions run out,
// given their class schedule. A missing or schedule-less class falls back to
// the default meeting days.
func (s *StudentService) ProjectEndDate(ctx context.Context, id string, from time.Time) (*StudentProjection, error) {
	detail, err := s.students.FindDetailByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	var class *models.Class
	if detail.ClassID != nil {
		class, err = s.classes.FindByID(ctx, *detail.ClassID)
		if err != nil && err != sql.ErrNoRows {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
		}
	}

	remaining := billing.Remaining(&detail.Student)
	schedule := billing.ScheduleFromClass(class)
	return &StudentProjection{
		StudentID:         detail.ID,
		RemainingSessions: remaining,
		ExpectedEndDate:   billing.ProjectEndDate(remaining, schedule, from),
	}, nil
}

func (s *StudentService) view(detail models.StudentDetail) StudentLedgerView {
	return StudentLedgerView{
		StudentDetail:     detail,
		RemainingSessions: billing.Remaining(&detail.Student),
		DebtSessions:      billing.DebtSessions(&detail.Student),
		ExpiringSoon:      billing.IsExpiringSoon(&detail.Student, s.expiringThreshold),
		InDebt:            billing.IsInDebt(&detail.Student),
	}
}
