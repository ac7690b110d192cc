package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/tutor-adp-api/internal/models"
	appErrors "github.com/noah-isme/tutor-adp-api/pkg/errors"
)

// pq error code for unique constraint violations.
const uniqueViolation = "23505"

// InvoiceRepository persists settlement invoices. The store is append-only:
// there is no update or delete path.
type InvoiceRepository struct {
	db *sqlx.DB
}

// NewInvoiceRepository constructs the repository.
func NewInvoiceRepository(db *sqlx.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

const invoiceColumns = `id, code, student_id, student_name, class_name, total_sessions,
        attended_sessions, debt_sessions, price_per_session, total_amount, paid_amount,
        remaining_amount, status, note, created_at`

// SettlementUpdate captures the enrollment mutation that must commit together
// with the invoice.
type SettlementUpdate struct {
	BadDebt         bool
	BadDebtSessions int
	BadDebtAmount   int64
	BadDebtDate     time.Time
	BadDebtNote     string
}

// CreateWithStudentUpdate appends the settlement invoice and applies the
// enrollment mutation (status to WITHDRAWN, class detached, bad-debt fields
// set or cleared) in a single transaction. A duplicate invoice code surfaces
// as ErrInvoiceCode so the caller can regenerate and retry.
func (r *InvoiceRepository) CreateWithStudentUpdate(ctx context.Context, invoice *models.SettlementInvoice, update SettlementUpdate) (err error) {
	if invoice.ID == "" {
		invoice.ID = uuid.NewString()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin settlement transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const invoiceQuery = `INSERT INTO settlement_invoices (id, code, student_id, student_name, class_name,
        total_sessions, attended_sessions, debt_sessions, price_per_session, total_amount,
        paid_amount, remaining_amount, status, note, created_at)
        VALUES (:id, :code, :student_id, :student_name, :class_name, :total_sessions, :attended_sessions,
        :debt_sessions, :price_per_session, :total_amount, :paid_amount, :remaining_amount, :status, :note, :created_at)`
	if _, err = tx.NamedExecContext(ctx, invoiceQuery, invoice); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			err = appErrors.Wrap(err, appErrors.ErrInvoiceCode.Code, appErrors.ErrInvoiceCode.Status, appErrors.ErrInvoiceCode.Message)
			return err
		}
		return fmt.Errorf("insert settlement invoice: %w", err)
	}

	now := time.Now().UTC()
	if update.BadDebt {
		const studentQuery = `UPDATE students SET status = $2, class_id = NULL, bad_debt = TRUE,
            bad_debt_sessions = $3, bad_debt_amount = $4, bad_debt_date = $5, bad_debt_note = $6, updated_at = $7
            WHERE id = $1`
		if _, err = tx.ExecContext(ctx, studentQuery, invoice.StudentID, models.StudentStatusWithdrawn,
			update.BadDebtSessions, update.BadDebtAmount, update.BadDebtDate, update.BadDebtNote, now); err != nil {
			return fmt.Errorf("update student for bad debt settlement: %w", err)
		}
	} else {
		const studentQuery = `UPDATE students SET status = $2, class_id = NULL, bad_debt = FALSE,
            bad_debt_sessions = NULL, bad_debt_amount = NULL, bad_debt_date = NULL, bad_debt_note = NULL, updated_at = $3
            WHERE id = $1`
		if _, err = tx.ExecContext(ctx, studentQuery, invoice.StudentID, models.StudentStatusWithdrawn, now); err != nil {
			return fmt.Errorf("update student for paid settlement: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit settlement: %w", err)
	}
	return nil
}

// History reports which settlement outcomes exist for a student.
func (r *InvoiceRepository) History(ctx context.Context, studentID string) (models.InvoiceHistory, error) {
	const query = `SELECT
        EXISTS(SELECT 1 FROM settlement_invoices WHERE student_id = $1 AND status = $2) AS has_bad_debt,
        EXISTS(SELECT 1 FROM settlement_invoices WHERE student_id = $1 AND status = $3) AS has_paid`
	var row struct {
		HasBadDebt bool `db:"has_bad_debt"`
		HasPaid    bool `db:"has_paid"`
	}
	if err := r.db.GetContext(ctx, &row, query, studentID, models.InvoiceStatusBadDebt, models.InvoiceStatusPaid); err != nil {
		return models.InvoiceHistory{}, fmt.Errorf("load invoice history: %w", err)
	}
	return models.InvoiceHistory{HasBadDebt: row.HasBadDebt, HasPaid: row.HasPaid}, nil
}

// List returns settlement invoices filtered by the provided criteria.
func (r *InvoiceRepository) List(ctx context.Context, filter models.InvoiceFilter) ([]models.SettlementInvoice, int, error) {
	base := "FROM settlement_invoices"
	var conditions []string
	var args []interface{}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	clause := ""
	if len(conditions) > 0 {
		clause = " WHERE " + strings.Join(conditions, " AND ")
	}

	allowedSorts := map[string]string{
		"created_at":   "created_at",
		"total_amount": "total_amount",
		"student_name": "student_name",
	}
	orderBy := allowedSorts[filter.SortBy]
	if orderBy == "" {
		orderBy = "created_at"
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		invoiceColumns, base+clause, orderBy, order, size, offset)

	var invoices []models.SettlementInvoice
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list settlement invoices: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base+clause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count settlement invoices: %w", err)
	}
	return invoices, total, nil
}

// OutstandingBadDebt sums the uncollected amount across bad-debt invoices.
func (r *InvoiceRepository) OutstandingBadDebt(ctx context.Context) (int64, error) {
	const query = `SELECT COALESCE(SUM(remaining_amount), 0) FROM settlement_invoices WHERE status = $1`
	var total int64
	if err := r.db.GetContext(ctx, &total, query, models.InvoiceStatusBadDebt); err != nil {
		return 0, fmt.Errorf("sum outstanding bad debt: %w", err)
	}
	return total, nil
}
