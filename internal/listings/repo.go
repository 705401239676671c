package listings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/homescout/homescout-backend/internal/repo"
	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
	"github.com/homescout/homescout-backend/pkg/pagination"
)

const (
	// SearchLimit caps public search results.
	SearchLimit = 200
	// BrowseLimit is the size of the buyer landing list.
	BrowseLimit = 10
)

// Repository persists seller requests, properties and their photos.
type Repository struct {
	repo.Base
}

// NewRepository constructs a listings repo bound to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a copy bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Tx(tx)}
}

func (r *Repository) CreateRequest(ctx context.Context, req *models.SellerRequest) error {
	return r.DB(ctx).Create(req).Error
}

func (r *Repository) FindRequest(ctx context.Context, id uuid.UUID) (*models.SellerRequest, error) {
	var req models.SellerRequest
	if err := r.DB(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// ListRequests returns requests newest first. A nil sellerID lists every seller's.
func (r *Repository) ListRequests(ctx context.Context, sellerID *uuid.UUID) ([]models.SellerRequest, error) {
	query := r.DB(ctx).Model(&models.SellerRequest{})
	if sellerID != nil {
		query = query.Where("seller_id = ?", *sellerID)
	}
	var rows []models.SellerRequest
	if err := query.Order("created_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AcceptedRequests reports which of ids already produced a property.
func (r *Repository) AcceptedRequests(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]bool, error) {
	out := make(map[uuid.UUID]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var accepted []uuid.UUID
	if err := r.DB(ctx).
		Model(&models.Property{}).
		Where("seller_request_id IN ?", ids).
		Pluck("seller_request_id", &accepted).Error; err != nil {
		return nil, err
	}
	for _, id := range accepted {
		out[id] = true
	}
	return out, nil
}

func (r *Repository) CreateProperty(ctx context.Context, p *models.Property) error {
	return r.DB(ctx).Create(p).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	var p models.Property
	if err := r.DB(ctx).First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindForUpdate loads the property holding a row lock until the surrounding
// transaction ends. SQLite ignores the locking clause.
func (r *Repository) FindForUpdate(ctx context.Context, id uuid.UUID) (*models.Property, error) {
	query := r.DB(ctx)
	if query.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}
	var p models.Property
	if err := query.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// ApplyTransition moves the property from one state to another only if it is
// still in from and not sold. It reports whether exactly one row changed.
func (r *Repository) ApplyTransition(ctx context.Context, id uuid.UUID, from, to State, extra map[string]any) (bool, error) {
	fields := map[string]any{
		"lifecycle_status": to.Lifecycle,
		"status":           to.Status,
		"updated_at":       time.Now().UTC(),
	}
	for k, v := range extra {
		fields[k] = v
	}
	res := r.DB(ctx).
		Model(&models.Property{}).
		Where("id = ? AND lifecycle_status = ? AND status = ? AND status <> ?", id, from.Lifecycle, from.Status, enums.PropertyStatusSold).
		Updates(fields)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *Repository) ListBySeller(ctx context.Context, sellerID uuid.UUID) ([]models.Property, error) {
	var rows []models.Property
	err := r.DB(ctx).Where("seller_id = ?", sellerID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *Repository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]models.Property, error) {
	var rows []models.Property
	err := r.DB(ctx).Where("listed_by_employee = ?", employeeID).Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// ListAll pages through every property newest first, fetching one extra row.
func (r *Repository) ListAll(ctx context.Context, lifecycle *enums.LifecycleStatus, limit int, cursor *pagination.Cursor) ([]models.Property, error) {
	query := r.DB(ctx).Model(&models.Property{})
	if lifecycle != nil {
		query = query.Where("lifecycle_status = ?", *lifecycle)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}
	var rows []models.Property
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *Repository) available(ctx context.Context) *gorm.DB {
	return r.DB(ctx).
		Model(&models.Property{}).
		Where("status = ? AND lifecycle_status = ?", enums.PropertyStatusAvailable, enums.LifecycleEnlisted)
}

// Search returns available listings matching filters, cheapest first.
func (r *Repository) Search(ctx context.Context, f SearchFilters) ([]models.Property, error) {
	query := r.available(ctx)
	if f.City != "" {
		query = query.Where("city = ?", f.City)
	}
	if f.MinPrice != nil {
		query = query.Where("base_price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		query = query.Where("base_price <= ?", *f.MaxPrice)
	}
	if f.MinRooms > 0 {
		query = query.Where("total_rooms >= ?", f.MinRooms)
	}
	limit := f.Limit
	if limit <= 0 || limit > SearchLimit {
		limit = SearchLimit
	}
	var rows []models.Property
	if err := query.Order("base_price ASC").Order("created_at DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Newest returns the most recently created available listings.
func (r *Repository) Newest(ctx context.Context, limit int) ([]models.Property, error) {
	var rows []models.Property
	if err := r.available(ctx).Order("created_at DESC").Order("id DESC").Limit(limit).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// AddPhoto inserts photo, first demoting the current primary when photo is primary.
// Callers run it inside a transaction.
func (r *Repository) AddPhoto(ctx context.Context, photo *models.PropertyPhoto) error {
	if photo.IsPrimary {
		if err := r.DB(ctx).
			Model(&models.PropertyPhoto{}).
			Where("property_id = ? AND is_primary = ?", photo.PropertyID, true).
			Update("is_primary", false).Error; err != nil {
			return err
		}
	}
	return r.DB(ctx).Create(photo).Error
}

// ListPhotos orders primary first, then newest upload.
func (r *Repository) ListPhotos(ctx context.Context, propertyID uuid.UUID) ([]models.PropertyPhoto, error) {
	var rows []models.PropertyPhoto
	err := r.DB(ctx).
		Where("property_id = ?", propertyID).
		Order("is_primary DESC").
		Order("uploaded_at DESC").
		Find(&rows).Error
	return rows, err
}

// PrimaryPhotos maps each property to its cover image file name.
func (r *Repository) PrimaryPhotos(ctx context.Context, propertyIDs []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(propertyIDs))
	if len(propertyIDs) == 0 {
		return out, nil
	}
	var rows []models.PropertyPhoto
	if err := r.DB(ctx).
		Where("property_id IN ? AND is_primary = ?", propertyIDs, true).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PropertyID] = row.FileName
	}
	return out, nil
}

// PhotoFileNames returns every distinct photo file name referenced by a listing.
func (r *Repository) PhotoFileNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.DB(ctx).
		Model(&models.PropertyPhoto{}).
		Distinct("file_name").
		Order("file_name").
		Pluck("file_name", &names).Error
	return names, err
}
