package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homescout/homescout-backend/pkg/enums"
)

// Buyer is the profile row for users registered as buyers.
type Buyer struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	FullName  string    `gorm:"column:full_name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Seller is the profile row for users registered as sellers.
type Seller struct {
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;primaryKey"`
	FullName  string    `gorm:"column:full_name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// Employee is the agent profile. Only Active agents receive enquiries.
type Employee struct {
	UserID      uuid.UUID            `gorm:"column:user_id;type:uuid;primaryKey"`
	DisplayName string               `gorm:"column:display_name;not null"`
	Status      enums.EmployeeStatus `gorm:"column:status;type:text;not null;default:Active"`
	CreatedAt   time.Time            `gorm:"column:created_at;autoCreateTime"`
}

// Investor keeps a running total that must equal the sum of its investment rows.
type Investor struct {
	UserID        uuid.UUID       `gorm:"column:user_id;type:uuid;primaryKey"`
	FullName      string          `gorm:"column:full_name;not null"`
	TotalInvested decimal.Decimal `gorm:"column:total_invested;type:numeric(14,2);not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}
