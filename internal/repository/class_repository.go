package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/tutor-adp-api/internal/models"
)

// ClassRepository reads class records. Classes are owned by the scheduling
// subsystem; this service only consumes them.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs the repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// FindByID returns a class by its ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT id, name, subject, price_per_session, schedule_days, schedule, active, created_at
        FROM classes WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// ListActive returns active classes ordered by name.
func (r *ClassRepository) ListActive(ctx context.Context) ([]models.Class, error) {
	const query = `SELECT id, name, subject, price_per_session, schedule_days, schedule, active, created_at
        FROM classes WHERE active = TRUE ORDER BY name`
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}
