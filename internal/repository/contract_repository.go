package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/tutor-adp-api/internal/models"
)

// ContractRepository persists contracts with their priced line items.
type ContractRepository struct {
	db *sqlx.DB
}

// NewContractRepository constructs the repository.
func NewContractRepository(db *sqlx.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// Create persists a contract, its line items and their applied discounts, and
// credits the purchased sessions to the student, all in one transaction. Line
// items are immutable once this commits.
func (r *ContractRepository) Create(ctx context.Context, contract *models.Contract, items []models.LineItem) (err error) {
	if contract.ID == "" {
		contract.ID = uuid.NewString()
	}
	if contract.CreatedAt.IsZero() {
		contract.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin contract transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const contractQuery = `INSERT INTO contracts (id, code, student_id, total_sessions, total_amount, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err = tx.ExecContext(ctx, contractQuery, contract.ID, contract.Code, contract.StudentID,
		contract.TotalSessions, contract.TotalAmount, contract.CreatedAt); err != nil {
		return fmt.Errorf("insert contract: %w", err)
	}

	const itemQuery = `INSERT INTO line_items (id, contract_id, description, sessions, subtotal, discount_ratio, final_price)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`
	const appliedQuery = `INSERT INTO applied_discounts (line_item_id, discount_id, name, type, value, amount)
        VALUES ($1, $2, $3, $4, $5, $6)`
	for i := range items {
		item := &items[i]
		if item.ID == "" {
			item.ID = uuid.NewString()
		}
		item.ContractID = contract.ID
		if _, err = tx.ExecContext(ctx, itemQuery, item.ID, item.ContractID, item.Description,
			item.Sessions, item.Subtotal, item.DiscountRatio, item.FinalPrice); err != nil {
			return fmt.Errorf("insert line item: %w", err)
		}
		for _, applied := range item.Discounts {
			if _, err = tx.ExecContext(ctx, appliedQuery, item.ID, applied.DiscountID, applied.Name,
				applied.Type, applied.Value, applied.Amount); err != nil {
				return fmt.Errorf("insert applied discount: %w", err)
			}
		}
	}

	const studentQuery = `UPDATE students SET registered_sessions = registered_sessions + $2, updated_at = $3
        WHERE id = $1`
	if _, err = tx.ExecContext(ctx, studentQuery, contract.StudentID, contract.TotalSessions, time.Now().UTC()); err != nil {
		return fmt.Errorf("credit registered sessions: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit contract: %w", err)
	}
	return nil
}

// FindByID returns a contract with its line items and applied discounts.
func (r *ContractRepository) FindByID(ctx context.Context, id string) (*models.ContractDetail, error) {
	const contractQuery = `SELECT id, code, student_id, total_sessions, total_amount, created_at
        FROM contracts WHERE id = $1`
	var detail models.ContractDetail
	if err := r.db.GetContext(ctx, &detail.Contract, contractQuery, id); err != nil {
		return nil, err
	}

	const itemsQuery = `SELECT id, contract_id, description, sessions, subtotal, discount_ratio, final_price
        FROM line_items WHERE contract_id = $1 ORDER BY id`
	if err := r.db.SelectContext(ctx, &detail.Items, itemsQuery, id); err != nil {
		return nil, fmt.Errorf("load line items: %w", err)
	}

	const appliedQuery = `SELECT line_item_id, discount_id, name, type, value, amount
        FROM applied_discounts WHERE line_item_id = ANY($1)`
	itemIDs := make([]string, len(detail.Items))
	index := make(map[string]*models.LineItem, len(detail.Items))
	for i := range detail.Items {
		itemIDs[i] = detail.Items[i].ID
		index[detail.Items[i].ID] = &detail.Items[i]
	}
	if len(itemIDs) > 0 {
		var rows []struct {
			LineItemID string `db:"line_item_id"`
			models.AppliedDiscount
		}
		if err := r.db.SelectContext(ctx, &rows, appliedQuery, pq.Array(itemIDs)); err != nil {
			return nil, fmt.Errorf("load applied discounts: %w", err)
		}
		for _, row := range rows {
			if item, ok := index[row.LineItemID]; ok {
				item.Discounts = append(item.Discounts, row.AppliedDiscount)
			}
		}
	}
	return &detail, nil
}

// ListByStudent returns a student's contracts, newest first.
func (r *ContractRepository) ListByStudent(ctx context.Context, studentID string) ([]models.Contract, error) {
	const query = `SELECT id, code, student_id, total_sessions, total_amount, created_at
        FROM contracts WHERE student_id = $1 ORDER BY created_at DESC`
	var contracts []models.Contract
	if err := r.db.SelectContext(ctx, &contracts, query, studentID); err != nil {
		return nil, fmt.Errorf("list contracts: %w", err)
	}
	return contracts, nil
}
