package ledger

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
)

// Service records and reads the payment lines of completed sales.
type Service interface {
	// RecordSale writes the three payments of a sale using tx.
	RecordSale(ctx context.Context, tx *gorm.DB, sale models.Sale, split Split) ([]models.Payment, error)
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]models.Payment, error)
}

type service struct {
	repo Repository
}

// NewService wires a ledger service with the provided repository.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) RecordSale(ctx context.Context, tx *gorm.DB, sale models.Sale, split Split) ([]models.Payment, error) {
	if sale.ID == uuid.Nil {
		return nil, fmt.Errorf("sale id is required")
	}
	payments := split.Payments(sale.ID, Parties{
		BuyerID:    sale.BuyerID,
		SellerID:   sale.SellerID,
		EmployeeID: sale.EmployeeID,
	})
	if !Balanced(sale, payments) {
		return nil, fmt.Errorf("payments for sale %s do not balance", sale.ID)
	}
	if err := s.repo.WithTx(tx).CreateBatch(ctx, payments); err != nil {
		return nil, fmt.Errorf("insert payments: %w", err)
	}
	return payments, nil
}

func (s *service) ListBySale(ctx context.Context, saleID uuid.UUID) ([]models.Payment, error) {
	if saleID == uuid.Nil {
		return nil, fmt.Errorf("sale id is required")
	}
	return s.repo.ListBySaleID(ctx, saleID)
}

var paymentOrder = map[enums.PaymentType]int{
	enums.PaymentTypeBuyerToCompany:    0,
	enums.PaymentTypeCompanyToSeller:   1,
	enums.PaymentTypeCompanyToEmployee: 2,
}

// sortByType orders a sale's lines money-in first. Rows of one batch share created_at.
func sortByType(payments []models.Payment) []models.Payment {
	slices.SortStableFunc(payments, func(a, b models.Payment) int {
		return paymentOrder[a.PaymentType] - paymentOrder[b.PaymentType]
	})
	return payments
}
