package ledger

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestComputeSplit(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		employee string
		company  string
		payout   string
	}{
		{name: "one million", price: "1000000", employee: "2000", company: "20000", payout: "978000"},
		{name: "scenario price", price: "9200000", employee: "18400", company: "184000", payout: "8997600"},
		{name: "zero", price: "0", employee: "0", company: "0", payout: "0"},
		{name: "rounds commissions to cents", price: "1234.57", employee: "2.47", company: "24.69", payout: "1207.41"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			split, err := ComputeSplit(dec(tt.price))
			require.NoError(t, err)
			require.True(t, split.EmployeeCommission.Equal(dec(tt.employee)), "employee %s", split.EmployeeCommission)
			require.True(t, split.CompanyCommission.Equal(dec(tt.company)), "company %s", split.CompanyCommission)
			require.True(t, split.SellerPayout.Equal(dec(tt.payout)), "payout %s", split.SellerPayout)
			require.True(t, split.CompanyRetained().Equal(split.CompanyCommission))
		})
	}
}

func TestComputeSplitRejectsBadPrices(t *testing.T) {
	_, err := ComputeSplit(dec("-1"))
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = ComputeSplit(dec("10.005"))
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = ComputeSplit(dec("1000000000000"))
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	split, err := ComputeSplit(MaxAmount)
	require.NoError(t, err)
	require.True(t, split.SellerPayout.IsPositive())
}

func TestPaymentsBalance(t *testing.T) {
	split, err := ComputeSplit(dec("1000000"))
	require.NoError(t, err)

	sale := models.Sale{
		ID:                 uuid.New(),
		BuyerID:            uuid.New(),
		SellerID:           uuid.New(),
		EmployeeID:         uuid.New(),
		FinalPrice:         split.FinalPrice,
		EmployeeCommission: split.EmployeeCommission,
		CompanyCommission:  split.CompanyCommission,
	}
	payments := split.Payments(sale.ID, Parties{BuyerID: sale.BuyerID, SellerID: sale.SellerID, EmployeeID: sale.EmployeeID})
	require.Len(t, payments, 3)
	require.True(t, Balanced(sale, payments))

	in := payments[0]
	require.Equal(t, enums.PaymentTypeBuyerToCompany, in.PaymentType)
	require.Equal(t, sale.BuyerID, *in.FromUserID)
	require.Nil(t, in.ToUserID, "company side is nil")
	require.Equal(t, "Buyer paid company", in.Notes)

	out := payments[1].Amount.Add(payments[2].Amount)
	require.True(t, out.Equal(dec("980000")))
	require.True(t, in.Amount.Sub(out).Equal(dec("20000")))

	require.False(t, Balanced(sale, payments[:2]))

	tampered := append([]models.Payment(nil), payments...)
	tampered[1].Amount = tampered[1].Amount.Add(dec("1"))
	require.False(t, Balanced(sale, tampered))
}
