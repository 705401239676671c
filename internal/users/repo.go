package users

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/homescout/homescout-backend/internal/repo"
	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
	"github.com/homescout/homescout-backend/pkg/pagination"
)

// Repository exposes user and role-profile persistence.
type Repository struct {
	repo.Base
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a copy bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Tx(tx)}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.DB(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateProfile inserts the single profile row the user's role calls for.
// Admins carry no profile.
func (r *Repository) CreateProfile(ctx context.Context, user *models.User, name string) error {
	var profile any
	switch user.Role {
	case enums.RoleBuyer:
		profile = &models.Buyer{UserID: user.ID, FullName: name}
	case enums.RoleSeller:
		profile = &models.Seller{UserID: user.ID, FullName: name}
	case enums.RoleEmployee:
		profile = &models.Employee{UserID: user.ID, DisplayName: name, Status: enums.EmployeeStatusActive}
	case enums.RoleInvestor:
		profile = &models.Investor{UserID: user.ID, FullName: name, TotalInvested: decimal.Zero}
	case enums.RoleAdmin:
		return nil
	default:
		return fmt.Errorf("unknown role %q", user.Role)
	}
	return r.DB(ctx).Create(profile).Error
}

// FindByID loads a user by their UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).First(&user, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByIdentifier matches identifier against username, email or phone.
func (r *Repository) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	var user models.User
	if err := r.DB(ctx).
		Where("username = ? OR email = ? OR phone = ?", identifier, identifier, identifier).
		Order("created_at ASC").
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindCollision returns the first user already holding the username, email
// or phone. It returns gorm.ErrRecordNotFound when all are free.
func (r *Repository) FindCollision(ctx context.Context, username string, email, phone *string) (*models.User, error) {
	query := r.DB(ctx).Where("username = ?", username)
	if email != nil {
		query = query.Or("email = ?", *email)
	}
	if phone != nil {
		query = query.Or("phone = ?", *phone)
	}
	var user models.User
	if err := query.First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// List returns users newest first, fetching one extra row to detect the next page.
func (r *Repository) List(ctx context.Context, role *enums.Role, limit int, cursor *pagination.Cursor) ([]models.User, error) {
	query := r.DB(ctx).Model(&models.User{})
	if role != nil {
		query = query.Where("role = ?", *role)
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	var rows []models.User
	if err := query.
		Order("created_at DESC").
		Order("id DESC").
		Limit(pagination.LimitWithBuffer(limit)).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// DisplayNames resolves profile names for the given users. Users without a
// profile are absent from the result.
func (r *Repository) DisplayNames(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	out := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	type nameRow struct {
		UserID uuid.UUID
		Name   string
	}
	sources := []struct {
		model  any
		column string
	}{
		{&models.Buyer{}, "full_name"},
		{&models.Seller{}, "full_name"},
		{&models.Employee{}, "display_name"},
		{&models.Investor{}, "full_name"},
	}
	for _, src := range sources {
		var rows []nameRow
		if err := r.DB(ctx).
			Model(src.model).
			Select("user_id, "+src.column+" AS name").
			Where("user_id IN ?", ids).
			Scan(&rows).Error; err != nil {
			return nil, err
		}
		for _, row := range rows {
			out[row.UserID] = row.Name
		}
	}
	return out, nil
}

// FindInvestor loads an investor profile.
func (r *Repository) FindInvestor(ctx context.Context, userID uuid.UUID) (*models.Investor, error) {
	var investor models.Investor
	if err := r.DB(ctx).First(&investor, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &investor, nil
}

// Dependents counts the rows in other tables that reference the user, keyed by table.
func (r *Repository) Dependents(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	checks := []struct {
		table string
		model any
		where string
		args  int
	}{
		{"properties", &models.Property{}, "seller_id = ? OR listed_by_employee = ?", 2},
		{"seller_requests", &models.SellerRequest{}, "seller_id = ?", 1},
		{"enquiries", &models.Enquiry{}, "buyer_id = ? OR employee_id = ?", 2},
		{"sales", &models.Sale{}, "buyer_id = ? OR seller_id = ? OR employee_id = ?", 3},
		{"payments", &models.Payment{}, "from_user_id = ? OR to_user_id = ?", 2},
		{"property_investments", &models.PropertyInvestment{}, "investor_id = ?", 1},
	}

	out := map[string]int64{}
	for _, check := range checks {
		args := make([]any, check.args)
		for i := range args {
			args[i] = userID
		}
		var count int64
		if err := r.DB(ctx).Model(check.model).Where(check.where, args...).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", check.table, err)
		}
		if count > 0 {
			out[check.table] = count
		}
	}
	return out, nil
}

// DeleteWithProfile removes the user's profile row and the user itself.
func (r *Repository) DeleteWithProfile(ctx context.Context, user *models.User) error {
	var profile any
	switch user.Role {
	case enums.RoleBuyer:
		profile = &models.Buyer{}
	case enums.RoleSeller:
		profile = &models.Seller{}
	case enums.RoleEmployee:
		profile = &models.Employee{}
	case enums.RoleInvestor:
		profile = &models.Investor{}
	case enums.RoleAdmin:
	}
	if profile != nil {
		if err := r.DB(ctx).Where("user_id = ?", user.ID).Delete(profile).Error; err != nil {
			return fmt.Errorf("delete profile: %w", err)
		}
	}
	res := r.DB(ctx).Where("id = ?", user.ID).Delete(&models.User{})
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountByRole returns how many users hold each role.
func (r *Repository) CountByRole(ctx context.Context) (map[enums.Role]int64, error) {
	var rows []struct {
		Role  enums.Role
		Total int64
	}
	if err := r.DB(ctx).
		Model(&models.User{}).
		Select("role, COUNT(*) AS total").
		Group("role").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[enums.Role]int64, len(rows))
	for _, row := range rows {
		out[row.Role] = row.Total
	}
	return out, nil
}
