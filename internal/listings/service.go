package listings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/homescout/homescout-backend/internal/ledger"
	"github.com/homescout/homescout-backend/internal/repo"
	"github.com/homescout/homescout-backend/pkg/auth"
	"github.com/homescout/homescout-backend/pkg/db"
	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
	pkgerrors "github.com/homescout/homescout-backend/pkg/errors"
	"github.com/homescout/homescout-backend/pkg/pagination"
)

// ListParams filters the admin property directory.
type ListParams struct {
	pagination.Params
	Lifecycle *enums.LifecycleStatus
}

// Service manages the listing lifecycle from seller request to removal.
type Service interface {
	SubmitRequest(ctx context.Context, actor auth.Actor, input SubmitRequestInput) (*SellerRequestDTO, error)
	ListRequests(ctx context.Context, actor auth.Actor) ([]SellerRequestDTO, error)
	AcceptRequest(ctx context.Context, actor auth.Actor, requestID uuid.UUID) (*PropertyDTO, error)
	Complete(ctx context.Context, actor auth.Actor, propertyID uuid.UUID, input CompleteListingInput) (*PropertyDTO, error)
	Remove(ctx context.Context, actor auth.Actor, propertyID uuid.UUID) error

	AddPhoto(ctx context.Context, actor auth.Actor, propertyID uuid.UUID, fileName string, primary bool) (*PhotoDTO, error)
	ListPhotos(ctx context.Context, propertyID uuid.UUID) ([]PhotoDTO, error)

	GetDetail(ctx context.Context, actor auth.Actor, propertyID uuid.UUID) (*PropertyDetailDTO, error)
	ListBySeller(ctx context.Context, actor auth.Actor) ([]PropertyDTO, error)
	SellerDashboard(ctx context.Context, actor auth.Actor) (*SellerDashboard, error)
	ListByEmployee(ctx context.Context, actor auth.Actor) ([]PropertyDTO, error)
	ListAll(ctx context.Context, actor auth.Actor, params ListParams) (*pagination.Page[PropertyDTO], error)
	Search(ctx context.Context, filters SearchFilters) ([]PropertyDTO, error)
	Browse(ctx context.Context, limit int) ([]PropertyDTO, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type nameResolver interface {
	DisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// ServiceParams bundles the listing service dependencies.
type ServiceParams struct {
	Repo  *Repository
	Names nameResolver
	TX    txRunner
	Clock func() time.Time
}

type service struct {
	repo  *Repository
	names nameResolver
	tx    txRunner
	now   func() time.Time
}

// NewService wires the listing service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("listings repository required")
	}
	if params.Names == nil {
		return nil, fmt.Errorf("name resolver required")
	}
	if params.TX == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	clock := params.Clock
	if clock == nil {
		clock = time.Now
	}
	return &service{repo: params.Repo, names: params.Names, tx: params.TX, now: clock}, nil
}

func (s *service) SubmitRequest(ctx context.Context, actor auth.Actor, input SubmitRequestInput) (*SellerRequestDTO, error) {
	if err := actor.Require(enums.RoleSeller); err != nil {
		return nil, err
	}
	location := strings.TrimSpace(input.ApproxLocation)
	city := strings.TrimSpace(input.ApproxCity)
	if location == "" || city == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "approximate location and city are required")
	}
	if err := ledger.CheckAmount("approx_price", input.ApproxPrice); err != nil {
		return nil, err
	}
	for field, v := range map[string]*int{"approx_floor": input.ApproxFloor, "approx_rooms": input.ApproxRooms} {
		if v != nil && *v < 0 {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "%s must not be negative", field)
		}
	}

	req := &models.SellerRequest{
		SellerID:       actor.UserID,
		ApproxLocation: location,
		ApproxCity:     city,
		ApproxPrice:    input.ApproxPrice,
		ApproxFloor:    input.ApproxFloor,
		ApproxRooms:    input.ApproxRooms,
		Notes:          strings.TrimSpace(input.Notes),
	}
	if err := s.repo.CreateRequest(ctx, req); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create seller request")
	}
	dto := requestFromModel(*req, false)
	return &dto, nil
}

func (s *service) ListRequests(ctx context.Context, actor auth.Actor) ([]SellerRequestDTO, error) {
	if err := actor.Require(enums.RoleSeller, enums.RoleEmployee, enums.RoleAdmin); err != nil {
		return nil, err
	}
	var sellerID *uuid.UUID
	if actor.Is(enums.RoleSeller) {
		sellerID = &actor.UserID
	}
	rows, err := s.repo.ListRequests(ctx, sellerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller requests")
	}
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	accepted, err := s.repo.AcceptedRequests(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load accepted requests")
	}
	out := make([]SellerRequestDTO, len(rows))
	for i, row := range rows {
		out[i] = requestFromModel(row, accepted[row.ID])
	}
	return out, nil
}

func (s *service) AcceptRequest(ctx context.Context, actor auth.Actor, requestID uuid.UUID) (*PropertyDTO, error) {
	if err := actor.Require(enums.RoleEmployee, enums.RoleAdmin); err != nil {
		return nil, err
	}

	var created models.Property
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		listings := s.repo.WithTx(tx)
		req, err := listings.FindRequest(ctx, requestID)
		if err != nil {
			return repo.NotFound(err, "seller request not found")
		}
		accepted, err := listings.AcceptedRequests(ctx, []uuid.UUID{req.ID})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check seller request")
		}
		if accepted[req.ID] {
			return pkgerrors.New(pkgerrors.CodeConflict, "seller request already accepted")
		}

		reqID := req.ID
		created = models.Property{
			SellerID:             req.SellerID,
			SellerRequestID:      &reqID,
			Location:             req.ApproxLocation,
			City:                 req.ApproxCity,
			Floor:                derefInt(req.ApproxFloor),
			TotalRooms:           derefInt(req.ApproxRooms),
			ParkingType:          enums.ParkingNone,
			BasePrice:            req.ApproxPrice,
			EstimatedMarketValue: req.ApproxPrice,
			LifecycleStatus:      StatePending.Lifecycle,
			Status:               StatePending.Status,
		}
		if err := listings.CreateProperty(ctx, &created); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "seller request already accepted")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create property")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := PropertyFromModel(created, "")
	return &dto, nil
}

func (s *service) Complete(ctx context.Context, actor auth.Actor, propertyID uuid.UUID, input CompleteListingInput) (*PropertyDTO, error) {
	if err := actor.Require(enums.RoleEmployee, enums.RoleAdmin); err != nil {
		return nil, err
	}
	fields, err := completionFields(input)
	if err != nil {
		return nil, err
	}
	if actor.Is(enums.RoleEmployee) {
		fields["listed_by_employee"] = actor.UserID
	}

	var updated *models.Property
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		listings := s.repo.WithTx(tx)
		property, err := listings.FindForUpdate(ctx, propertyID)
		if err != nil {
			return repo.NotFound(err, "property not found")
		}
		from := StateOf(property)
		to, err := Transition(from, ActionComplete)
		if err != nil {
			return err
		}
		ok, err := listings.ApplyTransition(ctx, propertyID, from, to, fields)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "enlist property")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "property changed while completing")
		}
		updated, err = listings.FindByID(ctx, propertyID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reload property")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := PropertyFromModel(*updated, "")
	return &dto, nil
}

func completionFields(input CompleteListingInput) (map[string]any, error) {
	title := strings.TrimSpace(input.Title)
	missing := []string{}
	if title == "" {
		missing = append(missing, "title")
	}
	if input.AreaSqft <= 0 {
		missing = append(missing, "area_sqft")
	}
	if input.TotalRooms <= 0 {
		missing = append(missing, "total_rooms")
	}
	if input.Bathrooms <= 0 {
		missing = append(missing, "bathrooms")
	}
	if input.BasePrice == nil {
		missing = append(missing, "base_price")
	}
	if len(missing) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "listing details incomplete").
			WithDetails(map[string]any{"missing": missing})
	}
	if input.Floor < 0 || input.BalconyCount < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "floor and balcony count must not be negative")
	}

	base := *input.BasePrice
	if err := ledger.CheckAmount("base_price", base); err != nil {
		return nil, err
	}
	estimate := base
	if input.EstimatedMarketValue != nil {
		estimate = *input.EstimatedMarketValue
		if err := ledger.CheckAmount("estimated_market_value", estimate); err != nil {
			return nil, err
		}
	}
	parking, err := enums.ParseParkingType(input.ParkingType)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid parking type")
	}

	return map[string]any{
		"title":                  title,
		"description":            strings.TrimSpace(input.Description),
		"area_sqft":              input.AreaSqft,
		"floor":                  input.Floor,
		"total_rooms":            input.TotalRooms,
		"bathrooms":              input.Bathrooms,
		"balcony_count":          input.BalconyCount,
		"facing":                 strings.TrimSpace(input.Facing),
		"has_lift":               input.HasLift,
		"open_kitchen":           input.OpenKitchen,
		"parking_type":           parking,
		"base_price":             base,
		"estimated_market_value": estimate,
	}, nil
}

func (s *service) Remove(ctx context.Context, actor auth.Actor, propertyID uuid.UUID) error {
	if err := actor.Require(enums.RoleAdmin); err != nil {
		return err
	}
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		listings := s.repo.WithTx(tx)
		property, err := listings.FindForUpdate(ctx, propertyID)
		if err != nil {
			return repo.NotFound(err, "property not found")
		}
		from := StateOf(property)
		to, err := Transition(from, ActionRemove)
		if err != nil {
			return err
		}
		ok, err := listings.ApplyTransition(ctx, propertyID, from, to, nil)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove property")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "property changed while removing")
		}
		return nil
	})
}

func (s *service) AddPhoto(ctx context.Context, actor auth.Actor, propertyID uuid.UUID, fileName string, primary bool) (*PhotoDTO, error) {
	if err := actor.Require(enums.RoleEmployee, enums.RoleAdmin); err != nil {
		return nil, err
	}
	name, err := NormalizePhotoName(fileName)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid photo name")
	}

	photo := models.PropertyPhoto{
		PropertyID: propertyID,
		FileName:   name,
		IsPrimary:  primary,
		UploadedAt: s.now().UTC(),
	}
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		listings := s.repo.WithTx(tx)
		property, err := listings.FindByID(ctx, propertyID)
		if err != nil {
			return repo.NotFound(err, "property not found")
		}
		if StateOf(property) == StateRemoved {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cannot add photos to a removed property")
		}
		if err := listings.AddPhoto(ctx, &photo); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "add photo")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := photoFromModel(photo, PhotoURLPrefix)
	return &dto, nil
}

func (s *service) ListPhotos(ctx context.Context, propertyID uuid.UUID) ([]PhotoDTO, error) {
	rows, err := s.repo.ListPhotos(ctx, propertyID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list photos")
	}
	out := make([]PhotoDTO, len(rows))
	for i, row := range rows {
		out[i] = photoFromModel(row, PhotoURLPrefix)
	}
	return out, nil
}

// GetDetail hides removed properties from everyone but staff and the owning seller.
func (s *service) GetDetail(ctx context.Context, actor auth.Actor, propertyID uuid.UUID) (*PropertyDetailDTO, error) {
	property, err := s.repo.FindByID(ctx, propertyID)
	if err != nil {
		return nil, repo.NotFound(err, "property not found")
	}
	if !Visible(actor, property) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "property not found")
	}

	ids := []uuid.UUID{property.SellerID}
	if property.ListedByEmployee != nil {
		ids = append(ids, *property.ListedByEmployee)
	}
	names, err := s.names.DisplayNames(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load party names")
	}
	photos, err := s.ListPhotos(ctx, propertyID)
	if err != nil {
		return nil, err
	}

	primary := ""
	if len(photos) > 0 && photos[0].IsPrimary {
		primary = photos[0].FileName
	}
	detail := &PropertyDetailDTO{
		PropertyDTO:     PropertyFromModel(*property, primary),
		Description:     property.Description,
		BalconyCount:    property.BalconyCount,
		Facing:          property.Facing,
		HasLift:         property.HasLift,
		OpenKitchen:     property.OpenKitchen,
		SellerRequestID: property.SellerRequestID,
		SellerName:      names[property.SellerID],
		Photos:          photos,
		UpdatedAt:       property.UpdatedAt,
	}
	if property.ListedByEmployee != nil {
		detail.AgentName = names[*property.ListedByEmployee]
	}
	return detail, nil
}

// Visible reports whether actor may see the property at all.
func Visible(actor auth.Actor, p *models.Property) bool {
	if StateOf(p) != StateRemoved {
		return true
	}
	if actor.IsStaff() {
		return true
	}
	return actor.Is(enums.RoleSeller) && actor.UserID == p.SellerID
}

func (s *service) ListBySeller(ctx context.Context, actor auth.Actor) ([]PropertyDTO, error) {
	if err := actor.Require(enums.RoleSeller); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListBySeller(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list seller properties")
	}
	return s.toDTOs(ctx, rows)
}

func (s *service) SellerDashboard(ctx context.Context, actor auth.Actor) (*SellerDashboard, error) {
	requests, err := s.ListRequests(ctx, actor)
	if err != nil {
		return nil, err
	}
	properties, err := s.ListBySeller(ctx, actor)
	if err != nil {
		return nil, err
	}
	return &SellerDashboard{Requests: requests, Properties: properties}, nil
}

func (s *service) ListByEmployee(ctx context.Context, actor auth.Actor) ([]PropertyDTO, error) {
	if err := actor.Require(enums.RoleEmployee); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListByEmployee(ctx, actor.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list agent properties")
	}
	return s.toDTOs(ctx, rows)
}

func (s *service) ListAll(ctx context.Context, actor auth.Actor, params ListParams) (*pagination.Page[PropertyDTO], error) {
	if err := actor.Require(enums.RoleAdmin); err != nil {
		return nil, err
	}
	if params.Lifecycle != nil && !params.Lifecycle.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid lifecycle filter")
	}
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.ListAll(ctx, params.Lifecycle, params.Limit, cursor)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list properties")
	}
	dtos, err := s.toDTOs(ctx, rows)
	if err != nil {
		return nil, err
	}
	page := pagination.Trim(dtos, params.Limit, func(p PropertyDTO) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})
	return &page, nil
}

func (s *service) Search(ctx context.Context, filters SearchFilters) ([]PropertyDTO, error) {
	filters.City = strings.TrimSpace(filters.City)
	for field, v := range map[string]*decimal.Decimal{"min_price": filters.MinPrice, "max_price": filters.MaxPrice} {
		if v != nil && v.IsNegative() {
			return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "%s must not be negative", field)
		}
	}
	if filters.MinPrice != nil && filters.MaxPrice != nil && filters.MinPrice.GreaterThan(*filters.MaxPrice) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_price exceeds max_price")
	}
	if filters.MinRooms < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min_rooms must not be negative")
	}
	rows, err := s.repo.Search(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "search properties")
	}
	return s.toDTOs(ctx, rows)
}

func (s *service) Browse(ctx context.Context, limit int) ([]PropertyDTO, error) {
	if limit <= 0 {
		limit = BrowseLimit
	}
	if limit > SearchLimit {
		limit = SearchLimit
	}
	rows, err := s.repo.Newest(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "browse properties")
	}
	return s.toDTOs(ctx, rows)
}

func (s *service) toDTOs(ctx context.Context, rows []models.Property) ([]PropertyDTO, error) {
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		ids[i] = rows[i].ID
	}
	covers, err := s.repo.PrimaryPhotos(ctx, ids)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cover photos")
	}
	out := make([]PropertyDTO, len(rows))
	for i, row := range rows {
		out[i] = PropertyFromModel(row, covers[row.ID])
	}
	return out, nil
}

func derefInt(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}
