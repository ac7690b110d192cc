package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutor-adp-api/internal/models"
)

// DiscountRepository reads the discount catalog.
type DiscountRepository struct {
	db *sqlx.DB
}

// NewDiscountRepository constructs the repository.
func NewDiscountRepository(db *sqlx.DB) *DiscountRepository {
	return &DiscountRepository{db: db}
}

// ListActive returns active catalog discounts ordered by name.
func (r *DiscountRepository) ListActive(ctx context.Context) ([]models.Discount, error) {
	const query = `SELECT id, name, type, value, active, created_at FROM discounts
        WHERE active = TRUE ORDER BY name`
	var discounts []models.Discount
	if err := r.db.SelectContext(ctx, &discounts, query); err != nil {
		return nil, fmt.Errorf("list discounts: %w", err)
	}
	return discounts, nil
}

// FindByIDs returns the catalog entries that exist among the requested IDs.
// IDs without a matching record are simply absent from the result; callers
// decide whether that is an error.
func (r *DiscountRepository) FindByIDs(ctx context.Context, ids []string) (map[string]models.Discount, error) {
	found := make(map[string]models.Discount, len(ids))
	if len(ids) == 0 {
		return found, nil
	}
	placeholders := make([]string, len(ids))
	args := make([]interface{}, len(ids))
	for i, id := range ids {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT id, name, type, value, active, created_at FROM discounts
        WHERE active = TRUE AND id IN (%s)`, strings.Join(placeholders, ","))
	var discounts []models.Discount
	if err := r.db.SelectContext(ctx, &discounts, query, args...); err != nil {
		return nil, fmt.Errorf("find discounts: %w", err)
	}
	for _, d := range discounts {
		found[d.ID] = d
	}
	return found, nil
}
