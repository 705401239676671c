package investments

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/homescout/homescout-backend/internal/repo"
	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
)

// Repository persists investment lines and the investor running totals.
type Repository struct {
	repo.Base
}

// NewRepository constructs an investments repo bound to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a copy bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Tx(tx)}
}

func (r *Repository) Create(ctx context.Context, inv *models.PropertyInvestment) error {
	return r.DB(ctx).Create(inv).Error
}

func (r *Repository) FindInvestor(ctx context.Context, userID uuid.UUID) (*models.Investor, error) {
	var investor models.Investor
	if err := r.DB(ctx).First(&investor, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &investor, nil
}

// AddToTotal increments the investor's running total. It reports
// gorm.ErrRecordNotFound when the investor has no profile row.
func (r *Repository) AddToTotal(ctx context.Context, investorID uuid.UUID, amount decimal.Decimal) error {
	res := r.DB(ctx).
		Model(&models.Investor{}).
		Where("user_id = ?", investorID).
		Update("total_invested", gorm.Expr("total_invested + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *Repository) SetTotal(ctx context.Context, investorID uuid.UUID, total decimal.Decimal) error {
	return r.DB(ctx).
		Model(&models.Investor{}).
		Where("user_id = ?", investorID).
		Update("total_invested", total).Error
}

// SumByInvestor adds up every investment line of the investor.
func (r *Repository) SumByInvestor(ctx context.Context, investorID uuid.UUID) (decimal.Decimal, error) {
	var row struct {
		Total decimal.Decimal
	}
	err := r.DB(ctx).
		Model(&models.PropertyInvestment{}).
		Select("COALESCE(SUM(invested_amount), 0) AS total").
		Where("investor_id = ?", investorID).
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, err
	}
	return row.Total.Round(2), nil
}

// InvestorIDs lists every investor profile, oldest first.
func (r *Repository) InvestorIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.DB(ctx).
		Model(&models.Investor{}).
		Order("created_at ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

// Row is an investment line joined with a summary of its property.
type Row struct {
	models.PropertyInvestment
	PropertyTitle    string
	PropertyCity     string
	PropertyLocation string
	PropertyStatus   enums.PropertyStatus
}

func (r *Repository) ListByInvestor(ctx context.Context, investorID uuid.UUID) ([]Row, error) {
	var rows []Row
	err := r.DB(ctx).
		Table("property_investments AS pi").
		Select("pi.*, p.title AS property_title, p.city AS property_city, p.location AS property_location, p.status AS property_status").
		Joins("JOIN properties AS p ON p.id = pi.property_id").
		Where("pi.investor_id = ?", investorID).
		Order("pi.created_at DESC").
		Order("pi.id DESC").
		Scan(&rows).Error
	return rows, err
}
