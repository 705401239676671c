package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// assignID fills an empty primary key before insert so the same models work on
// postgres and sqlite without relying on gen_random_uuid().
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every persisted model; used by AutoMigrate in dev and tests.
func All() []any {
	return []any{
		&User{},
		&Buyer{},
		&Seller{},
		&Employee{},
		&Investor{},
		&SellerRequest{},
		&Property{},
		&PropertyPhoto{},
		&Enquiry{},
		&Sale{},
		&Payment{},
		&PropertyInvestment{},
	}
}

func (u *User) BeforeCreate(*gorm.DB) error               { assignID(&u.ID); return nil }
func (r *SellerRequest) BeforeCreate(*gorm.DB) error      { assignID(&r.ID); return nil }
func (p *Property) BeforeCreate(*gorm.DB) error           { assignID(&p.ID); return nil }
func (p *PropertyPhoto) BeforeCreate(*gorm.DB) error      { assignID(&p.ID); return nil }
func (e *Enquiry) BeforeCreate(*gorm.DB) error            { assignID(&e.ID); return nil }
func (s *Sale) BeforeCreate(*gorm.DB) error               { assignID(&s.ID); return nil }
func (p *Payment) BeforeCreate(*gorm.DB) error            { assignID(&p.ID); return nil }
func (p *PropertyInvestment) BeforeCreate(*gorm.DB) error { assignID(&p.ID); return nil }
