package investments

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homescout/homescout-backend/internal/listings"
	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
)

// InvestInput funds a listed property.
type InvestInput struct {
	PropertyID uuid.UUID       `json:"property_id" validate:"required"`
	Amount     decimal.Decimal `json:"amount"`
}

type InvestmentDTO struct {
	ID               uuid.UUID            `json:"id"`
	PropertyID       uuid.UUID            `json:"property_id"`
	InvestorID       uuid.UUID            `json:"investor_id"`
	InvestedAmount   decimal.Decimal      `json:"invested_amount"`
	PropertyTitle    string               `json:"property_title,omitempty"`
	PropertyCity     string               `json:"property_city,omitempty"`
	PropertyLocation string               `json:"property_location,omitempty"`
	PropertyStatus   enums.PropertyStatus `json:"property_status,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}

// Portfolio is everything an investor's dashboard shows.
type Portfolio struct {
	InvestorID    uuid.UUID              `json:"investor_id"`
	FullName      string                 `json:"full_name"`
	TotalInvested decimal.Decimal        `json:"total_invested"`
	Investments   []InvestmentDTO        `json:"investments"`
	Available     []listings.PropertyDTO `json:"available_properties"`
}

// ReconcileResult reports what Reconcile found for one investor.
type ReconcileResult struct {
	InvestorID uuid.UUID       `json:"investor_id"`
	Previous   decimal.Decimal `json:"previous"`
	Recomputed decimal.Decimal `json:"recomputed"`
	Changed    bool            `json:"changed"`
}

func fromModel(inv models.PropertyInvestment) InvestmentDTO {
	return InvestmentDTO{
		ID:             inv.ID,
		PropertyID:     inv.PropertyID,
		InvestorID:     inv.InvestorID,
		InvestedAmount: inv.InvestedAmount,
		CreatedAt:      inv.CreatedAt,
	}
}

func fromRow(row Row) InvestmentDTO {
	dto := fromModel(row.PropertyInvestment)
	dto.PropertyTitle = row.PropertyTitle
	dto.PropertyCity = row.PropertyCity
	dto.PropertyLocation = row.PropertyLocation
	dto.PropertyStatus = row.PropertyStatus
	return dto
}
