package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
)

// CompleteSaleInput is what an agent submits to close a deal.
type CompleteSaleInput struct {
	PropertyID uuid.UUID       `json:"property_id" validate:"required"`
	BuyerID    uuid.UUID       `json:"buyer_id" validate:"required"`
	FinalPrice decimal.Decimal `json:"final_price"`
}

// SaleDTO is a committed sale with its ledger lines.
type SaleDTO struct {
	ID                 uuid.UUID       `json:"id"`
	PropertyID         uuid.UUID       `json:"property_id"`
	BuyerID            uuid.UUID       `json:"buyer_id"`
	SellerID           uuid.UUID       `json:"seller_id"`
	EmployeeID         uuid.UUID       `json:"employee_id"`
	FinalPrice         decimal.Decimal `json:"final_price"`
	EmployeeCommission decimal.Decimal `json:"employee_commission"`
	CompanyCommission  decimal.Decimal `json:"company_commission"`
	SaleDate           time.Time       `json:"sale_date"`
	Payments           []PaymentDTO    `json:"payments"`
}

// PaymentDTO is one ledger line. A nil party is the company.
type PaymentDTO struct {
	ID          uuid.UUID         `json:"id"`
	FromUserID  *uuid.UUID        `json:"from_user_id"`
	ToUserID    *uuid.UUID        `json:"to_user_id"`
	PaymentType enums.PaymentType `json:"payment_type"`
	Amount      decimal.Decimal   `json:"amount"`
	Notes       string            `json:"notes"`
}

// FromModel pairs a sale with its payments.
func FromModel(s models.Sale, payments []models.Payment) *SaleDTO {
	dto := &SaleDTO{
		ID:                 s.ID,
		PropertyID:         s.PropertyID,
		BuyerID:            s.BuyerID,
		SellerID:           s.SellerID,
		EmployeeID:         s.EmployeeID,
		FinalPrice:         s.FinalPrice,
		EmployeeCommission: s.EmployeeCommission,
		CompanyCommission:  s.CompanyCommission,
		SaleDate:           s.SaleDate,
		Payments:           make([]PaymentDTO, len(payments)),
	}
	for i, p := range payments {
		dto.Payments[i] = PaymentDTO{
			ID:          p.ID,
			FromUserID:  p.FromUserID,
			ToUserID:    p.ToUserID,
			PaymentType: p.PaymentType,
			Amount:      p.Amount,
			Notes:       p.Notes,
		}
	}
	return dto
}
