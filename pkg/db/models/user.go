package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/homescout/homescout-backend/pkg/enums"
)

// User represents the canonical identity entity.
type User struct {
	ID         uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Username   string     `gorm:"column:username;type:text;not null;uniqueIndex"`
	Email      *string    `gorm:"column:email;type:text;uniqueIndex"`
	Phone      *string    `gorm:"column:phone;type:text;uniqueIndex"`
	Credential string     `gorm:"column:credential;not null"`
	Role       enums.Role `gorm:"column:role;type:text;not null"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
}
