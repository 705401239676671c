package reports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/homescout/homescout-backend/internal/repo"
	"github.com/homescout/homescout-backend/pkg/db/models"
)

const (
	rankingLimit   = 20
	districtLimit  = 10
	dashboardLimit = 10
)

// Repository runs the aggregate queries. It never writes.
type Repository struct {
	repo.Base
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

type employeeRow struct {
	EmployeeID  uuid.UUID
	DisplayName string
	SalesCount  int64
	TotalValue  decimal.Decimal
}

// employeeSales ranks every employee, including those without sales.
func (r *Repository) employeeSales(ctx context.Context, order string, limit int) ([]employeeRow, error) {
	var rows []employeeRow
	err := r.DB(ctx).
		Table("employees AS e").
		Select("e.user_id AS employee_id, e.display_name, COUNT(s.id) AS sales_count, COALESCE(SUM(s.final_price), 0) AS total_value").
		Joins("LEFT JOIN sales AS s ON s.employee_id = e.user_id").
		Group("e.user_id, e.display_name").
		Order(order).
		Order("e.display_name ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) BestEmployees(ctx context.Context) ([]employeeRow, error) {
	return r.employeeSales(ctx, "sales_count DESC, total_value DESC", rankingLimit)
}

func (r *Repository) TopAgents(ctx context.Context) ([]employeeRow, error) {
	return r.employeeSales(ctx, "total_value DESC, sales_count DESC", dashboardLimit)
}

type cityRow struct {
	City     string
	Total    int64
	AvgPrice decimal.Decimal
}

func (r *Repository) cities(ctx context.Context, limit int) ([]cityRow, error) {
	var rows []cityRow
	err := r.DB(ctx).
		Model(&models.Property{}).
		Select("city, COUNT(*) AS total, AVG(base_price) AS avg_price").
		Where("city IS NOT NULL AND city <> ''").
		Group("city").
		Order("total DESC").
		Order("city ASC").
		Limit(limit).
		Scan(&rows).Error
	return rows, err
}

func (r *Repository) PropertyStatusCounts(ctx context.Context) ([]StatusCount, error) {
	var rows []StatusCount
	err := r.DB(ctx).
		Model(&models.Property{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("count DESC").
		Order("status ASC").
		Scan(&rows).Error
	return rows, err
}

type saleRow struct {
	SaleDate           time.Time
	FinalPrice         decimal.Decimal
	EmployeeCommission decimal.Decimal
	CompanyCommission  decimal.Decimal
}

// SalesSince loads the money columns of every sale on or after since.
func (r *Repository) SalesSince(ctx context.Context, since time.Time) ([]saleRow, error) {
	var rows []saleRow
	err := r.DB(ctx).
		Model(&models.Sale{}).
		Select("sale_date, final_price, employee_commission, company_commission").
		Where("sale_date >= ?", since).
		Order("sale_date ASC").
		Scan(&rows).Error
	return rows, err
}

type saleTotals struct {
	SalesCount         int64
	FinalPrice         decimal.Decimal
	EmployeeCommission decimal.Decimal
	CompanyCommission  decimal.Decimal
}

func (r *Repository) SaleTotals(ctx context.Context) (saleTotals, error) {
	var row saleTotals
	err := r.DB(ctx).
		Model(&models.Sale{}).
		Select("COUNT(*) AS sales_count, " +
			"COALESCE(SUM(final_price), 0) AS final_price, " +
			"COALESCE(SUM(employee_commission), 0) AS employee_commission, " +
			"COALESCE(SUM(company_commission), 0) AS company_commission").
		Scan(&row).Error
	return row, err
}

func (r *Repository) countBetween(ctx context.Context, model any, column string, from, to time.Time) (int64, error) {
	var n int64
	err := r.DB(ctx).
		Model(model).
		Where(column+" >= ? AND "+column+" < ?", from, to).
		Count(&n).Error
	return n, err
}

func (r *Repository) PropertiesCreated(ctx context.Context, from, to time.Time) (int64, error) {
	return r.countBetween(ctx, &models.Property{}, "created_at", from, to)
}

func (r *Repository) EnquiriesRaised(ctx context.Context, from, to time.Time) (int64, error) {
	return r.countBetween(ctx, &models.Enquiry{}, "enquiry_date", from, to)
}

func (r *Repository) Totals(ctx context.Context) (Totals, error) {
	var t Totals
	db := r.DB(ctx)
	if err := db.Model(&models.User{}).Count(&t.Users).Error; err != nil {
		return t, err
	}
	if err := db.Model(&models.Property{}).Count(&t.Properties).Error; err != nil {
		return t, err
	}
	if err := db.Model(&models.Sale{}).Count(&t.Sales).Error; err != nil {
		return t, err
	}
	return t, nil
}
