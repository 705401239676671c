package dbtest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
)

// CreateUser inserts a user plus the profile row its role requires.
func CreateUser(t testing.TB, conn *gorm.DB, role enums.Role, username string) models.User {
	t.Helper()

	user := models.User{Username: username, Credential: "secret", Role: role}
	if err := conn.Create(&user).Error; err != nil {
		t.Fatalf("create user %s: %v", username, err)
	}

	var profile any
	switch role {
	case enums.RoleBuyer:
		profile = &models.Buyer{UserID: user.ID, FullName: username}
	case enums.RoleSeller:
		profile = &models.Seller{UserID: user.ID, FullName: username}
	case enums.RoleEmployee:
		profile = &models.Employee{UserID: user.ID, DisplayName: username, Status: enums.EmployeeStatusActive}
	case enums.RoleInvestor:
		profile = &models.Investor{UserID: user.ID, FullName: username, TotalInvested: decimal.Zero}
	case enums.RoleAdmin:
	}
	if profile != nil {
		if err := conn.Create(profile).Error; err != nil {
			t.Fatalf("create %s profile: %v", role, err)
		}
	}
	return user
}

// PropertyOption tweaks a property before it is inserted.
type PropertyOption func(*models.Property)

// WithCity sets the property's city.
func WithCity(city string) PropertyOption {
	return func(p *models.Property) { p.City = city }
}

// WithPrice sets the base price.
func WithPrice(price string) PropertyOption {
	return func(p *models.Property) {
		p.BasePrice = decimal.RequireFromString(price)
		p.EstimatedMarketValue = p.BasePrice
	}
}

// WithRooms sets the room count.
func WithRooms(rooms int) PropertyOption {
	return func(p *models.Property) { p.TotalRooms = rooms }
}

// WithState sets both status axes.
func WithState(lifecycle enums.LifecycleStatus, status enums.PropertyStatus) PropertyOption {
	return func(p *models.Property) {
		p.LifecycleStatus = lifecycle
		p.Status = status
	}
}

// WithListedBy sets the listing employee.
func WithListedBy(employeeID uuid.UUID) PropertyOption {
	return func(p *models.Property) { p.ListedByEmployee = &employeeID }
}

// WithCreatedAt overrides the creation time.
func WithCreatedAt(at time.Time) PropertyOption {
	return func(p *models.Property) { p.CreatedAt = at }
}

// CreateProperty inserts an Enlisted/Available property owned by sellerID.
func CreateProperty(t testing.TB, conn *gorm.DB, sellerID uuid.UUID, opts ...PropertyOption) models.Property {
	t.Helper()

	property := models.Property{
		SellerID:        sellerID,
		Location:        "Road 11, Banani",
		City:            "Dhaka",
		Title:           "Three bed apartment",
		AreaSqft:        1450,
		Floor:           4,
		TotalRooms:      3,
		Bathrooms:       2,
		ParkingType:     enums.ParkingCovered,
		BasePrice:       decimal.RequireFromString("9000000"),
		LifecycleStatus: enums.LifecycleEnlisted,
		Status:          enums.PropertyStatusAvailable,
	}
	property.EstimatedMarketValue = property.BasePrice
	for _, opt := range opts {
		opt(&property)
	}
	if err := conn.Create(&property).Error; err != nil {
		t.Fatalf("create property: %v", err)
	}
	return property
}
