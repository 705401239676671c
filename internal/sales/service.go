package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homescout/homescout-backend/internal/ledger"
	"github.com/homescout/homescout-backend/internal/listings"
	"github.com/homescout/homescout-backend/internal/repo"
	"github.com/homescout/homescout-backend/pkg/auth"
	"github.com/homescout/homescout-backend/pkg/db"
	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
	"github.com/homescout/homescout-backend/pkg/logger"
	"github.com/homescout/homescout-backend/pkg/metrics"
)

// Service records completed sales and reads them back.
type Service interface {
	CompleteSale(ctx context.Context, actor auth.Actor, input CompleteSaleInput) (*SaleDTO, error)
	GetSale(ctx context.Context, actor auth.Actor, saleID uuid.UUID) (*SaleDTO, error)
	ListForEmployee(ctx context.Context, actor auth.Actor) ([]SaleDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type userLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// ServiceParams bundles the sale engine dependencies.
type ServiceParams struct {
	Repo     *Repository
	Listings *listings.Repository
	Users    userLookup
	Ledger   ledger.Service
	TX       txRunner
	Metrics  *metrics.SaleMetrics
	Logger   *logger.Logger
	Clock    func() time.Time
}

type service struct {
	repo     *Repository
	listings *listings.Repository
	users    userLookup
	ledger   ledger.Service
	tx       txRunner
	metrics  *metrics.SaleMetrics
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the sale engine.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("sales repository required")
	}
	if params.Listings == nil {
		return nil, fmt.Errorf("listings repository required")
	}
	if params.Users == nil {
		return nil, fmt.Errorf("user lookup required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if params.TX == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{
		repo:     params.Repo,
		listings: params.Listings,
		users:    params.Users,
		ledger:   params.Ledger,
		tx:       params.TX,
		metrics:  params.Metrics,
		logg:     logg,
		now:      clock,
	}, nil
}

func (s *service) CompleteSale(ctx context.Context, actor auth.Actor, input CompleteSaleInput) (*SaleDTO, error) {
	started := time.Now()
	ctx = s.logg.WithPropertyID(ctx, input.PropertyID.String())

	sale, err := s.completeSale(ctx, actor, input)
	s.metrics.ObserveDuration(time.Since(started))
	if err != nil {
		code := pkgerrors.CodeInternal
		if typed := pkgerrors.As(err); typed != nil {
			code = typed.Code()
		}
		s.metrics.IncFailed(string(code))
		if code == pkgerrors.CodeSaleFailed {
			s.logg.Error(ctx, "sale rolled back", err)
		}
		return nil, err
	}

	s.metrics.IncCompleted()
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"sale_id":     sale.ID.String(),
		"final_price": sale.FinalPrice.StringFixed(2),
	}), "sale completed")
	return sale, nil
}

func (s *service) completeSale(ctx context.Context, actor auth.Actor, input CompleteSaleInput) (*SaleDTO, error) {
	if err := actor.Require(enums.RoleEmployee, enums.RoleAdmin); err != nil {
		return nil, err
	}
	split, err := ledger.ComputeSplit(input.FinalPrice)
	if err != nil {
		return nil, err
	}

	buyer, err := s.users.FindByID(ctx, input.BuyerID)
	if err != nil {
		return nil, repo.NotFound(err, "buyer not found")
	}
	if buyer.Role != enums.RoleBuyer {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "buyer_id must reference a buyer").
			WithDetails(map[string]any{"role": buyer.Role})
	}
	if _, err := s.listings.FindByID(ctx, input.PropertyID); err != nil {
		return nil, repo.NotFound(err, "property not found")
	}

	var (
		sale     models.Sale
		payments []models.Payment
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		props := s.listings.WithTx(tx)
		property, err := props.FindForUpdate(ctx, input.PropertyID)
		if err != nil {
			return saleFailed(err, "lock property")
		}
		from := listings.StateOf(property)
		to, err := listings.Transition(from, listings.ActionSell)
		if err != nil {
			return err
		}

		employeeID := actor.UserID
		if property.ListedByEmployee != nil {
			employeeID = *property.ListedByEmployee
		}
		sale = models.Sale{
			PropertyID:         property.ID,
			BuyerID:            buyer.ID,
			SellerID:           property.SellerID,
			EmployeeID:         employeeID,
			FinalPrice:         split.FinalPrice,
			EmployeeCommission: split.EmployeeCommission,
			CompanyCommission:  split.CompanyCommission,
			SaleDate:           s.now().UTC(),
		}
		if err := s.repo.WithTx(tx).Create(ctx, &sale); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "property already sold")
			}
			return saleFailed(err, "insert sale")
		}

		payments, err = s.ledger.RecordSale(ctx, tx, sale, split)
		if err != nil {
			return saleFailed(err, "record payments")
		}

		ok, err := props.ApplyTransition(ctx, property.ID, from, to, nil)
		if err != nil {
			return saleFailed(err, "mark property sold")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeConflict, "property already sold")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return FromModel(sale, payments), nil
}

func saleFailed(err error, step string) error {
	return pkgerrors.Wrap(pkgerrors.CodeSaleFailed, err, step).
		WithDetails(map[string]any{"step": step})
}

// GetSale is visible to staff and to the buyer, seller and agent of the sale.
func (s *service) GetSale(ctx context.Context, actor auth.Actor, saleID uuid.UUID) (*SaleDTO, error) {
	if actor.Anonymous() {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "sign in required")
	}
	sale, err := s.repo.FindByID(ctx, saleID)
	if err != nil {
		return nil, repo.NotFound(err, "sale not found")
	}
	party := actor.UserID == sale.BuyerID || actor.UserID == sale.SellerID || actor.UserID == sale.EmployeeID
	if !party && !actor.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "sale not found")
	}
	payments, err := s.ledger.ListBySale(ctx, sale.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payments")
	}
	return FromModel(*sale, payments), nil
}

func (s *service) ListForEmployee(ctx context.Context, actor auth.Actor) ([]SaleDTO, error) {
	if err := actor.Require(enums.RoleEmployee); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByEmployee(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sales")
	}
	out := make([]SaleDTO, len(rows))
	for i, row := range rows {
		out[i] = *FromModel(row, nil)
	}
	return out, nil
}
