package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutor-adp-api/internal/models"
)

// StudentRepository handles persistence of students and their enrollment
// counters.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `s.id, s.code, s.full_name, s.phone, s.status, s.class_id,
        s.registered_sessions, s.attended_sessions, s.bad_debt, s.bad_debt_sessions,
        s.bad_debt_amount, s.bad_debt_date, s.bad_debt_note, s.created_at, s.updated_at`

// List returns students filtered by the provided criteria.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	base := `FROM students s
LEFT JOIN classes c ON c.id = s.class_id`
	var conditions []string
	var args []interface{}

	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(s.full_name ILIKE $%d OR s.code ILIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+filter.Search+"%")
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("s.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}
	if filter.ClassID != "" {
		conditions = append(conditions, fmt.Sprintf("s.class_id = $%d", len(args)+1))
		args = append(args, filter.ClassID)
	}
	if filter.InDebt != nil {
		if *filter.InDebt {
			conditions = append(conditions, fmt.Sprintf("(s.status = $%d OR s.attended_sessions > s.registered_sessions)", len(args)+1))
		} else {
			conditions = append(conditions, fmt.Sprintf("(s.status <> $%d AND s.attended_sessions <= s.registered_sessions)", len(args)+1))
		}
		args = append(args, models.StudentStatusDebt)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"name":       "s.full_name",
		"code":       "s.code",
		"created_at": "s.created_at",
		"remaining":  "(s.registered_sessions - s.attended_sessions)",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "s.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s, c.name AS class_name
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, studentColumns, base+clause, orderBy, order, size, offset)

	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// FindByID returns a student by its ID.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students s WHERE s.id = $1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// FindDetailByID returns a student with class context.
func (r *StudentRepository) FindDetailByID(ctx context.Context, id string) (*models.StudentDetail, error) {
	query := fmt.Sprintf(`SELECT %s, c.name AS class_name
        FROM students s
        LEFT JOIN classes c ON c.id = s.class_id
        WHERE s.id = $1`, studentColumns)
	var detail models.StudentDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Create persists a new student record.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now
	if student.Status == "" {
		student.Status = models.StudentStatusTrial
	}
	const query = `INSERT INTO students (id, code, full_name, phone, status, class_id,
        registered_sessions, attended_sessions, bad_debt, created_at, updated_at)
        VALUES (:id, :code, :full_name, :phone, :status, :class_id,
        :registered_sessions, :attended_sessions, :bad_debt, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// BadDebtUpdate carries the bad-debt fields written by the reconciler.
type BadDebtUpdate struct {
	Set      bool
	Sessions int
	Amount   int64
	Date     time.Time
	Note     string
}

// UpdateBadDebt sets or clears the bad-debt fields. Clearing nulls every
// companion field so the flag and its details never disagree.
func (r *StudentRepository) UpdateBadDebt(ctx context.Context, id string, update BadDebtUpdate) error {
	if update.Set {
		const query = `UPDATE students SET bad_debt = TRUE, bad_debt_sessions = $2,
            bad_debt_amount = $3, bad_debt_date = $4, bad_debt_note = $5, updated_at = $6
            WHERE id = $1`
		if _, err := r.db.ExecContext(ctx, query, id, update.Sessions, update.Amount, update.Date, update.Note, time.Now().UTC()); err != nil {
			return fmt.Errorf("set bad debt: %w", err)
		}
		return nil
	}
	const query = `UPDATE students SET bad_debt = FALSE, bad_debt_sessions = NULL,
        bad_debt_amount = NULL, bad_debt_date = NULL, bad_debt_note = NULL, updated_at = $2
        WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("clear bad debt: %w", err)
	}
	return nil
}

// StatusCount pairs a student status with how many students hold it.
type StatusCount struct {
	Status models.StudentStatus `db:"status"`
	Count  int                  `db:"count"`
}

// CountByStatus aggregates students per status for the dashboard.
func (r *StudentRepository) CountByStatus(ctx context.Context) ([]StatusCount, error) {
	const query = `SELECT status, COUNT(*) AS count FROM students GROUP BY status`
	var counts []StatusCount
	if err := r.db.SelectContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("count students by status: %w", err)
	}
	return counts, nil
}

// CountExpiringSoon counts studying students within threshold remaining
// sessions.
func (r *StudentRepository) CountExpiringSoon(ctx context.Context, threshold int) (int, error) {
	const query = `SELECT COUNT(*) FROM students
        WHERE status = $1
        AND registered_sessions - attended_sessions > 0
        AND registered_sessions - attended_sessions <= $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, models.StudentStatusStudying, threshold); err != nil {
		return 0, fmt.Errorf("count expiring students: %w", err)
	}
	return count, nil
}
