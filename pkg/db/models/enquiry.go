package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/homescout/homescout-backend/pkg/enums"
)

// Enquiry is a buyer's interest in a property, owned by the assigned agent.
type Enquiry struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	PropertyID  uuid.UUID           `gorm:"column:property_id;type:uuid;not null;index"`
	BuyerID     uuid.UUID           `gorm:"column:buyer_id;type:uuid;not null;index"`
	EmployeeID  uuid.UUID           `gorm:"column:employee_id;type:uuid;not null;index"`
	Status      enums.EnquiryStatus `gorm:"column:status;type:text;not null"`
	Notes       string              `gorm:"column:notes"`
	EnquiryDate time.Time           `gorm:"column:enquiry_date;not null"`
}
