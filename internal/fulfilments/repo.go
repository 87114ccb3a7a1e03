package fulfilments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbpkg "github.com/angelmondragon/rentalfleet-backend/pkg/db"
	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
)

// Repository persists fulfilment rows.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, fulfilment *models.Fulfilment) error
	// FindByID loads a fulfilment scoped to tenantID. Rows of other tenants surface as
	// gorm.ErrRecordNotFound.
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Fulfilment, error)
	// FindByIDForUpdate is FindByID holding a row lock on postgres.
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*models.Fulfilment, error)
	// SetAssignment writes the assigned unit and the line item link together.
	SetAssignment(ctx context.Context, id uuid.UUID, inventoryID, lineItemID *uuid.UUID) error
	ClearInventory(ctx context.Context, id uuid.UUID) error
	SetRentalDates(ctx context.Context, id uuid.UUID, start, end time.Time) error
	// ListUnassignedRentals returns rental rows with no unit that point at any of the
	// line items, oldest first.
	ListUnassignedRentals(ctx context.Context, tenantID uuid.UUID, lineItemIDs []uuid.UUID) ([]models.Fulfilment, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a fulfilment repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, fulfilment *models.Fulfilment) error {
	return r.db.WithContext(ctx).Create(fulfilment).Error
}

func (r *repository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Fulfilment, error) {
	return r.find(ctx, tenantID, id, false)
}

func (r *repository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*models.Fulfilment, error) {
	return r.find(ctx, tenantID, id, true)
}

func (r *repository) find(ctx context.Context, tenantID, id uuid.UUID, lock bool) (*models.Fulfilment, error) {
	query := r.db.WithContext(ctx).Where("id = ? AND tenant_id = ?", id, tenantID)
	if lock && dbpkg.IsPostgres(r.db) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var row models.Fulfilment
	if err := query.Take(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) SetAssignment(ctx context.Context, id uuid.UUID, inventoryID, lineItemID *uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Fulfilment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"inventory_id":                inventoryID,
			"purchase_order_line_item_id": lineItemID,
			"updated_at":                  time.Now().UTC(),
		}).Error
}

func (r *repository) ClearInventory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Fulfilment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"inventory_id": nil,
			"updated_at":   time.Now().UTC(),
		}).Error
}

func (r *repository) SetRentalDates(ctx context.Context, id uuid.UUID, start, end time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Fulfilment{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"rental_start_date": start,
			"rental_end_date":   end,
			"updated_at":        time.Now().UTC(),
		}).Error
}

func (r *repository) ListUnassignedRentals(ctx context.Context, tenantID uuid.UUID, lineItemIDs []uuid.UUID) ([]models.Fulfilment, error) {
	if len(lineItemIDs) == 0 {
		return nil, nil
	}
	var rows []models.Fulfilment
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("type = ?", enums.FulfilmentTypeRental).
		Where("inventory_id IS NULL").
		Where("purchase_order_line_item_id IN ?", lineItemIDs).
		Order("created_at ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
