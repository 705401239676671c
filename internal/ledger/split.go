package ledger

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
)

var (
	// EmployeeCommissionRate is the listing agent's share of the final price.
	EmployeeCommissionRate = decimal.RequireFromString("0.002")
	// CompanyCommissionRate is the brokerage's share of the final price.
	CompanyCommissionRate = decimal.RequireFromString("0.02")
	// MaxAmount is the largest value a numeric(14,2) money column holds.
	MaxAmount = decimal.RequireFromString("999999999999.99")
)

const (
	noteBuyerPaid  = "Buyer paid company"
	noteSellerPaid = "Payout to seller"
	noteAgentPaid  = "Agent commission"
	moneyPrecision = 2
)

// Split is the frozen money breakdown of one sale.
type Split struct {
	FinalPrice         decimal.Decimal
	EmployeeCommission decimal.Decimal
	CompanyCommission  decimal.Decimal
	SellerPayout       decimal.Decimal
}

// CompanyRetained is what the company keeps after paying seller and agent.
func (s Split) CompanyRetained() decimal.Decimal {
	return s.FinalPrice.Sub(s.SellerPayout).Sub(s.EmployeeCommission)
}

// ComputeSplit derives commissions and the seller payout from a final price.
// The price must be non-negative with at most two decimal places.
func ComputeSplit(finalPrice decimal.Decimal) (Split, error) {
	if err := CheckAmount("final_price", finalPrice); err != nil {
		return Split{}, err
	}

	employee := finalPrice.Mul(EmployeeCommissionRate).Round(moneyPrecision)
	company := finalPrice.Mul(CompanyCommissionRate).Round(moneyPrecision)
	payout := finalPrice.Sub(employee).Sub(company)
	if payout.IsNegative() {
		return Split{}, pkgerrors.New(pkgerrors.CodeValidation, "seller payout would be negative")
	}

	return Split{
		FinalPrice:         finalPrice,
		EmployeeCommission: employee,
		CompanyCommission:  company,
		SellerPayout:       payout,
	}, nil
}

// CheckAmount rejects negative amounts, amounts with more than two decimal
// places and amounts above MaxAmount.
func CheckAmount(field string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "%s must not be negative", field).
			WithDetails(map[string]any{field: amount.String()})
	}
	if !amount.Equal(amount.Round(moneyPrecision)) {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "%s supports at most two decimal places", field).
			WithDetails(map[string]any{field: amount.String()})
	}
	if amount.GreaterThan(MaxAmount) {
		return pkgerrors.Newf(pkgerrors.CodeValidation, "%s must not exceed %s", field, MaxAmount.StringFixed(moneyPrecision)).
			WithDetails(map[string]any{field: amount.String()})
	}
	return nil
}

// Parties names who pays and who is paid for a sale. The company is implicit.
type Parties struct {
	BuyerID    uuid.UUID
	SellerID   uuid.UUID
	EmployeeID uuid.UUID
}

// Payments returns the three ledger lines for the sale in the order they are written.
func (s Split) Payments(saleID uuid.UUID, parties Parties) []models.Payment {
	buyer, seller, employee := parties.BuyerID, parties.SellerID, parties.EmployeeID
	return []models.Payment{
		{
			SaleID:      saleID,
			FromUserID:  &buyer,
			PaymentType: enums.PaymentTypeBuyerToCompany,
			Amount:      s.FinalPrice,
			Notes:       noteBuyerPaid,
		},
		{
			SaleID:      saleID,
			ToUserID:    &seller,
			PaymentType: enums.PaymentTypeCompanyToSeller,
			Amount:      s.SellerPayout,
			Notes:       noteSellerPaid,
		},
		{
			SaleID:      saleID,
			ToUserID:    &employee,
			PaymentType: enums.PaymentTypeCompanyToEmployee,
			Amount:      s.EmployeeCommission,
			Notes:       noteAgentPaid,
		},
	}
}

// Balanced reports whether a sale's payments satisfy
// BuyerToCompany = CompanyToSeller + CompanyToEmployee + company margin.
func Balanced(sale models.Sale, payments []models.Payment) bool {
	amounts := map[enums.PaymentType]decimal.Decimal{}
	for _, p := range payments {
		if _, dup := amounts[p.PaymentType]; dup {
			return false
		}
		amounts[p.PaymentType] = p.Amount
	}
	in, okIn := amounts[enums.PaymentTypeBuyerToCompany]
	seller, okSeller := amounts[enums.PaymentTypeCompanyToSeller]
	agent, okAgent := amounts[enums.PaymentTypeCompanyToEmployee]
	if len(payments) != 3 || !okIn || !okSeller || !okAgent {
		return false
	}
	if !in.Equal(sale.FinalPrice) || !agent.Equal(sale.EmployeeCommission) {
		return false
	}
	margin := sale.CompanyCommission
	return in.Equal(seller.Add(agent).Add(margin))
}
