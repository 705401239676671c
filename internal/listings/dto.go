package listings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
)

// SubmitRequestInput is a seller's rough description of a property to sell.
type SubmitRequestInput struct {
	ApproxLocation string          `json:"approx_location" validate:"required"`
	ApproxCity     string          `json:"approx_city" validate:"required"`
	ApproxPrice    decimal.Decimal `json:"approx_price"`
	ApproxFloor    *int            `json:"approx_floor,omitempty" validate:"omitempty,min=0"`
	ApproxRooms    *int            `json:"approx_rooms,omitempty" validate:"omitempty,min=0"`
	Notes          string          `json:"notes"`
}

// CompleteListingInput carries the details an agent adds to enlist a property.
type CompleteListingInput struct {
	Title                string           `json:"title"`
	Description          string           `json:"description"`
	AreaSqft             int              `json:"area_sqft"`
	Floor                int              `json:"floor"`
	TotalRooms           int              `json:"total_rooms"`
	Bathrooms            int              `json:"bathrooms"`
	BalconyCount         int              `json:"balcony_count"`
	Facing               string           `json:"facing"`
	HasLift              bool             `json:"has_lift"`
	OpenKitchen          bool             `json:"open_kitchen"`
	ParkingType          string           `json:"parking_type"`
	BasePrice            *decimal.Decimal `json:"base_price"`
	EstimatedMarketValue *decimal.Decimal `json:"estimated_market_value,omitempty"`
}

// SearchFilters narrows the public search. Zero values are ignored.
type SearchFilters struct {
	City     string           `json:"city"`
	MinPrice *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice *decimal.Decimal `json:"max_price,omitempty"`
	MinRooms int              `json:"min_rooms"`
	Limit    int              `json:"limit"`
}

// SellerRequestDTO is the transport shape of a seller request.
type SellerRequestDTO struct {
	ID             uuid.UUID       `json:"id"`
	SellerID       uuid.UUID       `json:"seller_id"`
	ApproxLocation string          `json:"approx_location"`
	ApproxCity     string          `json:"approx_city"`
	ApproxPrice    decimal.Decimal `json:"approx_price"`
	ApproxFloor    *int            `json:"approx_floor,omitempty"`
	ApproxRooms    *int            `json:"approx_rooms,omitempty"`
	Notes          string          `json:"notes,omitempty"`
	Accepted       bool            `json:"accepted"`
	CreatedAt      time.Time       `json:"created_at"`
}

// PropertyDTO is the list shape of a property.
type PropertyDTO struct {
	ID                   uuid.UUID             `json:"id"`
	SellerID             uuid.UUID             `json:"seller_id"`
	ListedByEmployee     *uuid.UUID            `json:"listed_by_employee,omitempty"`
	Location             string                `json:"location"`
	City                 string                `json:"city"`
	Title                string                `json:"title"`
	AreaSqft             int                   `json:"area_sqft"`
	Floor                int                   `json:"floor"`
	TotalRooms           int                   `json:"total_rooms"`
	Bathrooms            int                   `json:"bathrooms"`
	ParkingType          enums.ParkingType     `json:"parking_type"`
	BasePrice            decimal.Decimal       `json:"base_price"`
	EstimatedMarketValue decimal.Decimal       `json:"estimated_market_value"`
	LifecycleStatus      enums.LifecycleStatus `json:"lifecycle_status"`
	Status               enums.PropertyStatus  `json:"status"`
	PrimaryPhoto         string                `json:"primary_photo,omitempty"`
	CreatedAt            time.Time             `json:"created_at"`
}

// PropertyDetailDTO adds the long-form fields, party names and photos.
type PropertyDetailDTO struct {
	PropertyDTO
	Description     string     `json:"description"`
	BalconyCount    int        `json:"balcony_count"`
	Facing          string     `json:"facing"`
	HasLift         bool       `json:"has_lift"`
	OpenKitchen     bool       `json:"open_kitchen"`
	SellerRequestID *uuid.UUID `json:"seller_request_id,omitempty"`
	SellerName      string     `json:"seller_name"`
	AgentName       string     `json:"agent_name,omitempty"`
	Photos          []PhotoDTO `json:"photos"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// PhotoDTO references a static image.
type PhotoDTO struct {
	ID         uuid.UUID `json:"id"`
	FileName   string    `json:"file_name"`
	URL        string    `json:"url"`
	IsPrimary  bool      `json:"is_primary"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// SellerDashboard groups what a seller sees on their home screen.
type SellerDashboard struct {
	Requests   []SellerRequestDTO `json:"requests"`
	Properties []PropertyDTO      `json:"properties"`
}

func requestFromModel(r models.SellerRequest, accepted bool) SellerRequestDTO {
	return SellerRequestDTO{
		ID:             r.ID,
		SellerID:       r.SellerID,
		ApproxLocation: r.ApproxLocation,
		ApproxCity:     r.ApproxCity,
		ApproxPrice:    r.ApproxPrice,
		ApproxFloor:    r.ApproxFloor,
		ApproxRooms:    r.ApproxRooms,
		Notes:          r.Notes,
		Accepted:       accepted,
		CreatedAt:      r.CreatedAt,
	}
}

// PropertyFromModel converts a property row. primaryPhoto may be empty.
func PropertyFromModel(p models.Property, primaryPhoto string) PropertyDTO {
	return PropertyDTO{
		ID:                   p.ID,
		SellerID:             p.SellerID,
		ListedByEmployee:     p.ListedByEmployee,
		Location:             p.Location,
		City:                 p.City,
		Title:                p.Title,
		AreaSqft:             p.AreaSqft,
		Floor:                p.Floor,
		TotalRooms:           p.TotalRooms,
		Bathrooms:            p.Bathrooms,
		ParkingType:          p.ParkingType,
		BasePrice:            p.BasePrice,
		EstimatedMarketValue: p.EstimatedMarketValue,
		LifecycleStatus:      p.LifecycleStatus,
		Status:               p.Status,
		PrimaryPhoto:         primaryPhoto,
		CreatedAt:            p.CreatedAt,
	}
}

func photoFromModel(p models.PropertyPhoto, urlPrefix string) PhotoDTO {
	return PhotoDTO{
		ID:         p.ID,
		FileName:   p.FileName,
		URL:        urlPrefix + p.FileName,
		IsPrimary:  p.IsPrimary,
		UploadedAt: p.UploadedAt,
	}
}
