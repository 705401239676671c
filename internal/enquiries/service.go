package enquiries

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homescout/homescout-backend/internal/listings"
	"github.com/homescout/homescout-backend/internal/repo"
	"github.com/homescout/homescout-backend/pkg/auth"
	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
)

// CreateInput is a buyer's enquiry about a listing.
type CreateInput struct {
	PropertyID uuid.UUID `json:"property_id" validate:"required"`
	Notes      string    `json:"notes"`
}

// UpdateInput moves an enquiry forward. An empty status keeps the current one.
type UpdateInput struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// EnquiryDTO is the transport shape of an enquiry.
type EnquiryDTO struct {
	ID            uuid.UUID           `json:"id"`
	PropertyID    uuid.UUID           `json:"property_id"`
	PropertyTitle string              `json:"property_title,omitempty"`
	PropertyCity  string              `json:"property_city,omitempty"`
	BuyerID       uuid.UUID           `json:"buyer_id"`
	BuyerName     string              `json:"buyer_name,omitempty"`
	EmployeeID    uuid.UUID           `json:"employee_id"`
	AgentName     string              `json:"agent_name,omitempty"`
	Status        enums.EnquiryStatus `json:"status"`
	Notes         string              `json:"notes"`
	EnquiryDate   time.Time           `json:"enquiry_date"`
}

func fromRow(r Row) EnquiryDTO {
	dto := fromModel(r.Enquiry)
	dto.PropertyTitle = r.PropertyTitle
	dto.PropertyCity = r.PropertyCity
	dto.BuyerName = r.BuyerName
	dto.AgentName = r.AgentName
	return dto
}

func fromModel(e models.Enquiry) EnquiryDTO {
	return EnquiryDTO{
		ID:          e.ID,
		PropertyID:  e.PropertyID,
		BuyerID:     e.BuyerID,
		EmployeeID:  e.EmployeeID,
		Status:      e.Status,
		Notes:       e.Notes,
		EnquiryDate: e.EnquiryDate,
	}
}

// Service routes buyer interest to agents.
type Service interface {
	Create(ctx context.Context, actor auth.Actor, input CreateInput) (*EnquiryDTO, error)
	Update(ctx context.Context, actor auth.Actor, enquiryID uuid.UUID, input UpdateInput) (*EnquiryDTO, error)
	ListForEmployee(ctx context.Context, actor auth.Actor) ([]EnquiryDTO, error)
	ListForBuyer(ctx context.Context, actor auth.Actor) ([]EnquiryDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type propertyLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error)
}

type service struct {
	repo       *Repository
	properties propertyLookup
	tx         txRunner
	now        func() time.Time
}

// NewService wires the enquiry service.
func NewService(repo *Repository, properties propertyLookup, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("enquiries repository required")
	}
	if properties == nil {
		return nil, fmt.Errorf("property lookup required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, properties: properties, tx: tx, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, actor auth.Actor, input CreateInput) (*EnquiryDTO, error) {
	if err := actor.Require(enums.RoleBuyer); err != nil {
		return nil, err
	}
	property, err := s.properties.FindByID(ctx, input.PropertyID)
	if err != nil {
		return nil, repo.NotFound(err, "property not found")
	}
	if !listings.Visible(actor, property) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
	}
	if state := listings.StateOf(property); state != listings.StateAvailable {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "property is not open for enquiries").
			WithDetails(map[string]any{"state": state.String()})
	}

	enquiry := models.Enquiry{
		PropertyID:  property.ID,
		BuyerID:     actor.UserID,
		Status:      enums.EnquiryStatusOpen,
		Notes:       strings.TrimSpace(input.Notes),
		EnquiryDate: s.now().UTC(),
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		enquiries := s.repo.WithTx(tx)
		agentID, err := enquiries.LeastLoadedAgent(ctx)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "no agent available")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "pick agent")
		}
		enquiry.EmployeeID = agentID
		if err := enquiries.Create(ctx, &enquiry); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create enquiry")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := fromModel(enquiry)
	dto.PropertyTitle = property.Title
	dto.PropertyCity = property.City
	return &dto, nil
}

func (s *service) Update(ctx context.Context, actor auth.Actor, enquiryID uuid.UUID, input UpdateInput) (*EnquiryDTO, error) {
	if err := actor.Require(enums.RoleEmployee); err != nil {
		return nil, err
	}
	note := strings.TrimSpace(input.Note)

	var updated *models.Enquiry
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		enquiries := s.repo.WithTx(tx)
		current, err := enquiries.FindByID(ctx, enquiryID)
		if err != nil {
			return repo.NotFound(err, "enquiry not found")
		}
		if current.EmployeeID != actor.UserID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "enquiry is assigned to another agent")
		}

		status := current.Status
		if strings.TrimSpace(input.Status) != "" {
			status, err = enums.ParseEnquiryStatus(strings.TrimSpace(input.Status))
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
			}
		}
		if current.Status == enums.EnquiryStatusClosed && status != enums.EnquiryStatusClosed {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "closed enquiries cannot be reopened")
		}
		if status == current.Status && note == "" {
			updated = current
			return nil
		}

		if err := enquiries.Update(ctx, enquiryID, status, note); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update enquiry")
		}
		updated, err = enquiries.FindByID(ctx, enquiryID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload enquiry")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := fromModel(*updated)
	return &dto, nil
}

func (s *service) ListForEmployee(ctx context.Context, actor auth.Actor) ([]EnquiryDTO, error) {
	if err := actor.Require(enums.RoleEmployee); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByEmployee(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list enquiries")
	}
	return toDTOs(rows), nil
}

func (s *service) ListForBuyer(ctx context.Context, actor auth.Actor) ([]EnquiryDTO, error) {
	if err := actor.Require(enums.RoleBuyer); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByBuyer(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list enquiries")
	}
	return toDTOs(rows), nil
}

func toDTOs(rows []Row) []EnquiryDTO {
	out := make([]EnquiryDTO, len(rows))
	for i, row := range rows {
		out[i] = fromRow(row)
	}
	return out
}
