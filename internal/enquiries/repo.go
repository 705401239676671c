package enquiries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/homescout/homescout-backend/internal/repo"
	"github.com/homescout/homescout-backend/pkg/db/models"
	"github.com/homescout/homescout-backend/pkg/enums"
)

const noteSeparator = "\n"

// Repository persists buyer enquiries.
type Repository struct {
	repo.Base
}

// NewRepository constructs an enquiries repo bound to db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// WithTx returns a copy bound to tx.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{Base: r.Tx(tx)}
}

func (r *Repository) Create(ctx context.Context, e *models.Enquiry) error {
	return r.DB(ctx).Create(e).Error
}

func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Enquiry, error) {
	var e models.Enquiry
	if err := r.DB(ctx).First(&e, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

// LeastLoadedAgent picks the active employee holding the fewest enquiries
// that are not closed. Ties go to the longest-serving agent.
func (r *Repository) LeastLoadedAgent(ctx context.Context) (uuid.UUID, error) {
	var row struct {
		UserID uuid.UUID
	}
	err := r.DB(ctx).
		Table("employees AS e").
		Select("e.user_id").
		Joins("LEFT JOIN enquiries AS q ON q.employee_id = e.user_id AND q.status <> ?", enums.EnquiryStatusClosed).
		Where("e.status = ?", enums.EmployeeStatusActive).
		Group("e.user_id, e.created_at").
		Order("COUNT(q.id) ASC").
		Order("e.created_at ASC").
		Order("e.user_id ASC").
		Limit(1).
		Take(&row).Error
	if err != nil {
		return uuid.Nil, err
	}
	return row.UserID, nil
}

// Update sets the status and appends note after any existing notes.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, status enums.EnquiryStatus, note string) error {
	fields := map[string]any{"status": status}
	if note != "" {
		fields["notes"] = gorm.Expr(
			"CASE WHEN notes IS NULL OR notes = '' THEN ? ELSE notes || ? || ? END",
			note, noteSeparator, note,
		)
	}
	return r.DB(ctx).Model(&models.Enquiry{}).Where("id = ?", id).Updates(fields).Error
}

// Row is an enquiry joined with the property title and the parties' names.
type Row struct {
	models.Enquiry
	PropertyTitle string
	PropertyCity  string
	BuyerName     string
	AgentName     string
}

func (r *Repository) list(ctx context.Context) *gorm.DB {
	return r.DB(ctx).
		Table("enquiries").
		Select("enquiries.*, p.title AS property_title, p.city AS property_city, b.full_name AS buyer_name, e.display_name AS agent_name").
		Joins("JOIN properties AS p ON p.id = enquiries.property_id").
		Joins("LEFT JOIN buyers AS b ON b.user_id = enquiries.buyer_id").
		Joins("LEFT JOIN employees AS e ON e.user_id = enquiries.employee_id").
		Order("enquiries.enquiry_date DESC").
		Order("enquiries.id DESC")
}

func (r *Repository) ListByEmployee(ctx context.Context, employeeID uuid.UUID) ([]Row, error) {
	var rows []Row
	err := r.list(ctx).Where("enquiries.employee_id = ?", employeeID).Scan(&rows).Error
	return rows, err
}

func (r *Repository) ListByBuyer(ctx context.Context, buyerID uuid.UUID) ([]Row, error) {
	var rows []Row
	err := r.list(ctx).Where("enquiries.buyer_id = ?", buyerID).Scan(&rows).Error
	return rows, err
}
