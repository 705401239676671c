package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homescout/homescout-backend/pkg/enums"
)

// Sale is the immutable record of a completed transaction. One per property.
type Sale struct {
	ID                 uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	PropertyID         uuid.UUID       `gorm:"column:property_id;type:uuid;not null;uniqueIndex"`
	BuyerID            uuid.UUID       `gorm:"column:buyer_id;type:uuid;not null;index"`
	SellerID           uuid.UUID       `gorm:"column:seller_id;type:uuid;not null;index"`
	EmployeeID         uuid.UUID       `gorm:"column:employee_id;type:uuid;not null;index"`
	FinalPrice         decimal.Decimal `gorm:"column:final_price;type:numeric(14,2);not null"`
	EmployeeCommission decimal.Decimal `gorm:"column:employee_commission;type:numeric(14,2);not null"`
	CompanyCommission  decimal.Decimal `gorm:"column:company_commission;type:numeric(14,2);not null"`
	SaleDate           time.Time       `gorm:"column:sale_date;not null"`
}

// Payment is one ledger line of a sale. A nil party is the company.
type Payment struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;primaryKey"`
	SaleID      uuid.UUID         `gorm:"column:sale_id;type:uuid;not null;index"`
	FromUserID  *uuid.UUID        `gorm:"column:from_user_id;type:uuid;index"`
	ToUserID    *uuid.UUID        `gorm:"column:to_user_id;type:uuid;index"`
	PaymentType enums.PaymentType `gorm:"column:payment_type;type:text;not null"`
	Amount      decimal.Decimal   `gorm:"column:amount;type:numeric(14,2);not null"`
	Notes       string            `gorm:"column:notes"`
	CreatedAt   time.Time         `gorm:"column:created_at;autoCreateTime"`
}

// PropertyInvestment is one funding line of an investor against a property.
type PropertyInvestment struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	PropertyID     uuid.UUID       `gorm:"column:property_id;type:uuid;not null;index"`
	InvestorID     uuid.UUID       `gorm:"column:investor_id;type:uuid;not null;index"`
	InvestedAmount decimal.Decimal `gorm:"column:invested_amount;type:numeric(14,2);not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}
