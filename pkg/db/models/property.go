package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homescout/homescout-backend/pkg/enums"
)

// SellerRequest is a seller's informal ask to list a property. Never mutated.
type SellerRequest struct {
	ID             uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	SellerID       uuid.UUID       `gorm:"column:seller_id;type:uuid;not null;index"`
	ApproxLocation string          `gorm:"column:approx_location;not null"`
	ApproxCity     string          `gorm:"column:approx_city;not null"`
	ApproxPrice    decimal.Decimal `gorm:"column:approx_price;type:numeric(14,2);not null"`
	ApproxFloor    *int            `gorm:"column:approx_floor"`
	ApproxRooms    *int            `gorm:"column:approx_rooms"`
	Notes          string          `gorm:"column:notes"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// Property is a listing. LifecycleStatus and Status only move together through
// listings.Transition.
type Property struct {
	ID                   uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	SellerID             uuid.UUID             `gorm:"column:seller_id;type:uuid;not null;index"`
	SellerRequestID      *uuid.UUID            `gorm:"column:seller_request_id;type:uuid;uniqueIndex"`
	ListedByEmployee     *uuid.UUID            `gorm:"column:listed_by_employee;type:uuid;index"`
	Location             string                `gorm:"column:location;not null"`
	City                 string                `gorm:"column:city;not null;index"`
	Title                string                `gorm:"column:title"`
	Description          string                `gorm:"column:description"`
	AreaSqft             int                   `gorm:"column:area_sqft"`
	Floor                int                   `gorm:"column:floor"`
	TotalRooms           int                   `gorm:"column:total_rooms"`
	Bathrooms            int                   `gorm:"column:bathrooms"`
	BalconyCount         int                   `gorm:"column:balcony_count"`
	Facing               string                `gorm:"column:facing"`
	HasLift              bool                  `gorm:"column:has_lift;not null;default:false"`
	OpenKitchen          bool                  `gorm:"column:open_kitchen;not null;default:false"`
	ParkingType          enums.ParkingType     `gorm:"column:parking_type;type:text;not null;default:None"`
	BasePrice            decimal.Decimal       `gorm:"column:base_price;type:numeric(14,2);not null;default:0"`
	EstimatedMarketValue decimal.Decimal       `gorm:"column:estimated_market_value;type:numeric(14,2);not null;default:0"`
	LifecycleStatus      enums.LifecycleStatus `gorm:"column:lifecycle_status;type:text;not null"`
	Status               enums.PropertyStatus  `gorm:"column:status;type:text;not null"`
	CreatedAt            time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// PropertyPhoto references a static image file.
type PropertyPhoto struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	PropertyID uuid.UUID `gorm:"column:property_id;type:uuid;not null;index"`
	FileName   string    `gorm:"column:file_name;not null"`
	IsPrimary  bool      `gorm:"column:is_primary;not null;default:false"`
	UploadedAt time.Time `gorm:"column:uploaded_at;not null"`
}
