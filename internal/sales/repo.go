package sales

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homescout/homescout-backend/internal/repo"
	"github.com/homescout/homescout-backend/pkg/db/models"
)

// Repository persists sale headers. Payment lines live in the ledger.
type Repository struct {
	repo.Base
}

// NewRepository constructs a sales repo bound to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a copy bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Tx(tx)}
}

func (r *Repository) Create(ctx context.Context, sale *models.Sale) error {
	return r.DB(ctx).Create(sale).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Sale, error) {
	var sale models.Sale
	if err := r.DB(ctx).First(&sale, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

// ListByEmployee returns the agent's sales, newest first.
func (r *Repository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]models.Sale, error) {
	var rows []models.Sale
	err := r.DB(ctx).Where("employee_id = ?", employeeID).Order("sale_date DESC").Find(&rows).Error
	return rows, err
}
