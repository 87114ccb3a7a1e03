package inventory

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

// Repository persists inventory units. Units are never deleted.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.InventoryItem) error
	CreateBatch(ctx context.Context, items []models.InventoryItem) error
	// FindByID is not tenant scoped so callers can tell a foreign unit from a missing one.
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	// FindByIDForUpdate is FindByID holding a row lock on postgres.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.InventoryStatus) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an inventory repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, item *models.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *repository) CreateBatch(ctx context.Context, items []models.InventoryItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(items, 100).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	return r.find(ctx, id, false)
}

func (r *repository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	return r.find(ctx, id, true)
}

func (r *repository) find(ctx context.Context, id uuid.UUID, lock bool) (*models.InventoryItem, error) {
	query := r.db.WithContext(ctx).Where("id = ?", id)
	if lock && dbpkg.IsPostgres(r.db) {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var item models.InventoryItem
	if err := query.Take(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.InventoryStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":     status,
			"updated_at": time.Now().UTC(),
		}).Error
}
