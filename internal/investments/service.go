package investments

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homescout/homescout-backend/internal/ledger"
	"github.com/homescout/homescout-backend/internal/listings"
	"github.com/homescout/homescout-backend/internal/repo"
	"github.com/homescout/homescout-backend/pkg/auth"
	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
)

// AvailableLimit caps the open listings shown on the portfolio page.
const AvailableLimit = 50

// Service lets investors fund listed properties.
type Service interface {
	Invest(ctx context.Context, actor auth.Actor, input InvestInput) (*InvestmentDTO, error)
	Portfolio(ctx context.Context, actor auth.Actor) (*Portfolio, error)
	// Reconcile recomputes the investor's running total from investment rows.
	Reconcile(ctx context.Context, investorID uuid.UUID) (*ReconcileResult, error)
	InvestorIDs(ctx context.Context) ([]uuid.UUID, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo     *Repository
	listings *listings.Repository
	tx       txRunner
}

// NewService wires the investment service.
func NewService(repo *Repository, listingRepo *listings.Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("investments repository required")
	}
	if listingRepo == nil {
		return nil, fmt.Errorf("listings repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, listings: listingRepo, tx: tx}, nil
}

func (s *service) Invest(ctx context.Context, actor auth.Actor, input InvestInput) (*InvestmentDTO, error) {
	if err := actor.Require(enums.RoleInvestor); err != nil {
		return nil, err
	}
	if err := ledger.CheckAmount("amount", input.Amount); err != nil {
		return nil, err
	}
	if !input.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "amount must be greater than zero").
			WithDetails(map[string]any{"amount": input.Amount.String()})
	}

	investment := models.PropertyInvestment{
		PropertyID:     input.PropertyID,
		InvestorID:     actor.UserID,
		InvestedAmount: input.Amount,
	}
	var property *models.Property
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		property, err = s.listings.WithTx(tx).FindForUpdate(ctx, input.PropertyID)
		if err != nil {
			return repo.NotFound(err, "property not found")
		}
		if listings.StateOf(property) != listings.StateAvailable {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "property is not open for investment").
				WithDetails(map[string]any{"state": listings.StateOf(property).String()})
		}

		investments := s.repo.WithTx(tx)
		investor, err := investments.FindInvestor(ctx, actor.UserID)
		if err != nil {
			return repo.NotFound(err, "investor profile not found")
		}
		if investor.TotalInvested.Add(input.Amount).GreaterThan(ledger.MaxAmount) {
			return pkgerrors.New(pkgerrors.CodeValidation, "investment would exceed the maximum portfolio total").
				WithDetails(map[string]any{"total_invested": investor.TotalInvested.String(), "amount": input.Amount.String()})
		}
		if err := investments.AddToTotal(ctx, actor.UserID, input.Amount); err != nil {
			return repo.NotFound(err, "investor profile not found")
		}
		if err := investments.Create(ctx, &investment); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record investment")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	dto := fromModel(investment)
	dto.PropertyTitle = property.Title
	dto.PropertyCity = property.City
	dto.PropertyLocation = property.Location
	dto.PropertyStatus = property.Status
	return &dto, nil
}

func (s *service) Portfolio(ctx context.Context, actor auth.Actor) (*Portfolio, error) {
	if err := actor.Require(enums.RoleInvestor); err != nil {
		return nil, err
	}
	investor, err := s.repo.FindInvestor(ctx, actor.UserID)
	if err != nil {
		return nil, repo.NotFound(err, "investor profile not found")
	}
	rows, err := s.repo.ListByInvestor(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list investments")
	}
	available, err := s.listings.Newest(ctx, AvailableLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available properties")
	}
	ids := make([]uuid.UUID, len(available))
	for i := range available {
		ids[i] = available[i].ID
	}
	covers, err := s.listings.PrimaryPhotos(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cover photos")
	}

	out := &Portfolio{
		InvestorID:    investor.UserID,
		FullName:      investor.FullName,
		TotalInvested: investor.TotalInvested,
		Investments:   make([]InvestmentDTO, len(rows)),
		Available:     make([]listings.PropertyDTO, len(available)),
	}
	for i, row := range rows {
		out.Investments[i] = fromRow(row)
	}
	for i, p := range available {
		out.Available[i] = listings.PropertyFromModel(p, covers[p.ID])
	}
	return out, nil
}

func (s *service) Reconcile(ctx context.Context, investorID uuid.UUID) (*ReconcileResult, error) {
	var result *ReconcileResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		investments := s.repo.WithTx(tx)
		investor, err := investments.FindInvestor(ctx, investorID)
		if err != nil {
			return repo.NotFound(err, "investor profile not found")
		}
		sum, err := investments.SumByInvestor(ctx, investorID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum investments")
		}
		result = &ReconcileResult{
			InvestorID: investorID,
			Previous:   investor.TotalInvested,
			Recomputed: sum,
			Changed:    !investor.TotalInvested.Equal(sum),
		}
		if !result.Changed {
			return nil
		}
		if err := investments.SetTotal(ctx, investorID, sum); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store investor total")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) InvestorIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids, err := s.repo.InvestorIDs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list investors")
	}
	return ids, nil
}
