package sales

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/homescout/homescout-backend/internal/ledger"
	"github.com/homescout/homescout-backend/internal/listings"
	"github.com/homescout/homescout-backend/internal/users"
	"github.com/homescout/homescout-backend/pkg/auth"
	"github.com/homescout/homescout-backend/pkg/db"
	"github.com/homescout/homescout-backend/pkg/db/dbtest"
	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
	"github.com/homescout/homescout-backend/pkg/logger"
	"github.com/homescout/homescout-backend/pkg/metrics"
)

type saleFixture struct {
	svc    Service
	client *db.Client
	conn   *gorm.DB
	reg    *prometheus.Registry
	seller models.User
	buyer  models.User
	agent  models.User
	admin  models.User
}

type failingLedger struct {
	ledger.Service
}

func (failingLedger) RecordSale(context.Context, *gorm.DB, models.Sale, ledger.Split) ([]models.Payment, error) {
	return nil, errors.New("disk full")
}

func newSaleFixture(t *testing.T, ledgerOverride ledger.Service) saleFixture {
	t.Helper()
	client := dbtest.Open(t)
	conn := client.DB()

	ledgerSvc := ledgerOverride
	if ledgerSvc == nil {
		var err error
		ledgerSvc, err = ledger.NewService(ledger.NewRepository(conn))
		require.NoError(t, err)
	}
	reg := prometheus.NewRegistry()
	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(conn),
		Listings: listings.NewRepository(conn),
		Users:    users.NewRepository(conn),
		Ledger:   ledgerSvc,
		TX:       client,
		Metrics:  metrics.NewSaleMetrics(reg),
		Logger:   logger.Nop(),
		Clock:    func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) },
	})
	require.NoError(t, err)

	return saleFixture{
		svc:    svc,
		client: client,
		conn:   conn,
		reg:    reg,
		seller: dbtest.CreateUser(t, conn, enums.RoleSeller, "sumi"),
		buyer:  dbtest.CreateUser(t, conn, enums.RoleBuyer, "babul"),
		agent:  dbtest.CreateUser(t, conn, enums.RoleEmployee, "anis"),
		admin:  dbtest.CreateUser(t, conn, enums.RoleAdmin, "root"),
	}
}

func actorOf(u models.User) auth.Actor {
	return auth.Actor{UserID: u.ID, Username: u.Username, Role: u.Role}
}

func price(v string) decimal.Decimal { return decimal.RequireFromString(v) }

func (f saleFixture) counter(t *testing.T, name, code string) float64 {
	t.Helper()
	families, err := f.reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.GetMetric() {
			if code == "" || hasLabel(m, "code", code) {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func hasLabel(m *dto.Metric, name, value string) bool {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name && lp.GetValue() == value {
			return true
		}
	}
	return false
}

func (f saleFixture) count(t *testing.T, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.conn.Model(model).Count(&n).Error)
	return n
}

func TestCompleteSaleWritesSalePaymentsAndFlipsProperty(t *testing.T) {
	f := newSaleFixture(t, nil)
	property := dbtest.CreateProperty(t, f.conn, f.seller.ID, dbtest.WithListedBy(f.agent.ID))

	sale, err := f.svc.CompleteSale(context.Background(), actorOf(f.admin), CompleteSaleInput{
		PropertyID: property.ID,
		BuyerID:    f.buyer.ID,
		FinalPrice: price("1000000"),
	})
	require.NoError(t, err)
	require.Equal(t, f.agent.ID, sale.EmployeeID)
	require.Equal(t, f.seller.ID, sale.SellerID)
	require.True(t, sale.EmployeeCommission.Equal(price("2000")))
	require.True(t, sale.CompanyCommission.Equal(price("20000")))

	require.Len(t, sale.Payments, 3)
	in, out, fee := sale.Payments[0], sale.Payments[1], sale.Payments[2]
	require.Equal(t, enums.PaymentTypeBuyerToCompany, in.PaymentType)
	require.Equal(t, f.buyer.ID, *in.FromUserID)
	require.Nil(t, in.ToUserID)
	require.True(t, in.Amount.Equal(price("1000000")))
	require.Equal(t, enums.PaymentTypeCompanyToSeller, out.PaymentType)
	require.Nil(t, out.FromUserID)
	require.True(t, out.Amount.Equal(price("978000")))
	require.Equal(t, enums.PaymentTypeCompanyToEmployee, fee.PaymentType)
	require.Equal(t, f.agent.ID, *fee.ToUserID)
	require.True(t, fee.Amount.Equal(price("2000")))

	var reloaded models.Property
	require.NoError(t, f.conn.First(&reloaded, "id = ?", property.ID).Error)
	require.Equal(t, listings.StateSold, listings.StateOf(&reloaded))

	got, err := f.svc.GetSale(context.Background(), actorOf(f.buyer), sale.ID)
	require.NoError(t, err)
	require.Len(t, got.Payments, 3)
	require.Equal(t, enums.PaymentTypeBuyerToCompany, got.Payments[0].PaymentType)

	require.Equal(t, float64(1), f.counter(t, "homescout_sales_completed_total", ""))
}

func TestCompleteSaleNinePointTwoMillion(t *testing.T) {
	f := newSaleFixture(t, nil)
	property := dbtest.CreateProperty(t, f.conn, f.seller.ID)

	sale, err := f.svc.CompleteSale(context.Background(), actorOf(f.agent), CompleteSaleInput{
		PropertyID: property.ID,
		BuyerID:    f.buyer.ID,
		FinalPrice: price("9200000"),
	})
	require.NoError(t, err)
	require.Equal(t, f.agent.ID, sale.EmployeeID, "acting agent is used when no listing employee is set")
	require.True(t, sale.EmployeeCommission.Equal(price("18400")))
	require.True(t, sale.CompanyCommission.Equal(price("184000")))
	require.True(t, sale.Payments[1].Amount.Equal(price("8997600")))
}

func TestCompleteSaleTwiceConflicts(t *testing.T) {
	f := newSaleFixture(t, nil)
	property := dbtest.CreateProperty(t, f.conn, f.seller.ID)
	input := CompleteSaleInput{PropertyID: property.ID, BuyerID: f.buyer.ID, FinalPrice: price("500000")}

	_, err := f.svc.CompleteSale(context.Background(), actorOf(f.agent), input)
	require.NoError(t, err)

	_, err = f.svc.CompleteSale(context.Background(), actorOf(f.agent), input)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeConflict))
	require.Equal(t, int64(1), f.count(t, &models.Sale{}))
	require.Equal(t, int64(3), f.count(t, &models.Payment{}))
	require.Equal(t, float64(1), f.counter(t, "homescout_sales_failed_total", string(pkgerrors.CodeConflict)))
}

func TestCompleteSaleRejectsUnsellableStates(t *testing.T) {
	f := newSaleFixture(t, nil)
	pending := dbtest.CreateProperty(t, f.conn, f.seller.ID, dbtest.WithState(enums.LifecycleRequested, enums.PropertyStatusPending))
	removed := dbtest.CreateProperty(t, f.conn, f.seller.ID, dbtest.WithState(enums.LifecycleRemoved, enums.PropertyStatusInactive))

	for _, p := range []models.Property{pending, removed} {
		_, err := f.svc.CompleteSale(context.Background(), actorOf(f.agent), CompleteSaleInput{
			PropertyID: p.ID, BuyerID: f.buyer.ID, FinalPrice: price("100"),
		})
		require.True(t, pkgerrors.Is(err, pkgerrors.CodeStateConflict))
	}
	require.Zero(t, f.count(t, &models.Sale{}))
}

func TestCompleteSaleValidatesBeforeWriting(t *testing.T) {
	f := newSaleFixture(t, nil)
	property := dbtest.CreateProperty(t, f.conn, f.seller.ID)
	ctx := context.Background()

	cases := []struct {
		name  string
		actor auth.Actor
		input CompleteSaleInput
		code  pkgerrors.Code
	}{
		{"negative price", actorOf(f.agent), CompleteSaleInput{property.ID, f.buyer.ID, price("-1")}, pkgerrors.CodeValidation},
		{"three decimals", actorOf(f.agent), CompleteSaleInput{property.ID, f.buyer.ID, price("10.001")}, pkgerrors.CodeValidation},
		{"buyer is a seller", actorOf(f.agent), CompleteSaleInput{property.ID, f.seller.ID, price("10")}, pkgerrors.CodeValidation},
		{"unknown buyer", actorOf(f.agent), CompleteSaleInput{property.ID, uuid.New(), price("10")}, pkgerrors.CodeNotFound},
		{"unknown property", actorOf(f.agent), CompleteSaleInput{uuid.New(), f.buyer.ID, price("10")}, pkgerrors.CodeNotFound},
		{"buyer cannot sell", actorOf(f.buyer), CompleteSaleInput{property.ID, f.buyer.ID, price("10")}, pkgerrors.CodeForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CompleteSale(ctx, tc.actor, tc.input)
			require.True(t, pkgerrors.Is(err, tc.code), "got %v", err)
		})
	}
	require.Zero(t, f.count(t, &models.Sale{}))
	require.Zero(t, f.count(t, &models.Payment{}))
}

func TestCompleteSaleZeroPrice(t *testing.T) {
	f := newSaleFixture(t, nil)
	property := dbtest.CreateProperty(t, f.conn, f.seller.ID)

	sale, err := f.svc.CompleteSale(context.Background(), actorOf(f.agent), CompleteSaleInput{
		PropertyID: property.ID, BuyerID: f.buyer.ID, FinalPrice: decimal.Zero,
	})
	require.NoError(t, err)
	for _, p := range sale.Payments {
		require.True(t, p.Amount.IsZero())
	}
}

func TestCompleteSaleRollsBackWhenLedgerFails(t *testing.T) {
	f := newSaleFixture(t, failingLedger{})
	property := dbtest.CreateProperty(t, f.conn, f.seller.ID)

	_, err := f.svc.CompleteSale(context.Background(), actorOf(f.agent), CompleteSaleInput{
		PropertyID: property.ID, BuyerID: f.buyer.ID, FinalPrice: price("250000"),
	})
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeSaleFailed))
	require.ErrorContains(t, err, "record payments")

	require.Zero(t, f.count(t, &models.Sale{}))
	var reloaded models.Property
	require.NoError(t, f.conn.First(&reloaded, "id = ?", property.ID).Error)
	require.Equal(t, listings.StateAvailable, listings.StateOf(&reloaded))
	require.Equal(t, float64(1), f.counter(t, "homescout_sales_failed_total", string(pkgerrors.CodeSaleFailed)))
}

func TestGetSaleHiddenFromOutsiders(t *testing.T) {
	f := newSaleFixture(t, nil)
	property := dbtest.CreateProperty(t, f.conn, f.seller.ID)
	sale, err := f.svc.CompleteSale(context.Background(), actorOf(f.agent), CompleteSaleInput{
		PropertyID: property.ID, BuyerID: f.buyer.ID, FinalPrice: price("1000"),
	})
	require.NoError(t, err)

	stranger := dbtest.CreateUser(t, f.conn, enums.RoleBuyer, "stranger")
	_, err = f.svc.GetSale(context.Background(), actorOf(stranger), sale.ID)
	require.True(t, pkgerrors.Is(err, pkgerrors.CodeNotFound))

	_, err = f.svc.GetSale(context.Background(), actorOf(f.admin), sale.ID)
	require.NoError(t, err)

	mine, err := f.svc.ListForEmployee(context.Background(), actorOf(f.agent))
	require.NoError(t, err)
	require.Len(t, mine, 1)
}
