package reservations

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	dbpkg "github.com/angelmondragon/rentalfleet-backend/pkg/db"
	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
	"github.com/angelmondragon/rentalfleet-backend/pkg/pagination"
)

// Repository is the reservation ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	// ListActive returns every reservation held against the unit, ordered by start date.
	ListActive(ctx context.Context, tenantID, inventoryID uuid.UUID) ([]models.Reservation, error)
	// Create inserts a reservation. Callers run the overlap check in the same transaction.
	Create(ctx context.Context, reservation *models.Reservation) error
	// DeleteByFulfilment removes the fulfilment's reservation, if any.
	DeleteByFulfilment(ctx context.Context, tenantID, fulfilmentID uuid.UUID) (int64, error)
	FindByFulfilment(ctx context.Context, tenantID, fulfilmentID uuid.UUID) (*models.Reservation, error)
	Query(ctx context.Context, filter Filter) ([]models.Reservation, error)
}

// Filter narrows reservation reads. TenantID is mandatory.
type Filter struct {
	TenantID     uuid.UUID
	InventoryID  *uuid.UUID
	FulfilmentID *uuid.UUID
	Params       pagination.Params
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a reservation ledger bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) ListActive(ctx context.Context, tenantID, inventoryID uuid.UUID) ([]models.Reservation, error) {
	var rows []models.Reservation
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND inventory_id = ?", tenantID, inventoryID).
		Order("start_date ASC").
		Order("id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Create(ctx context.Context, reservation *models.Reservation) error {
	if reservation == nil {
		return errors.New("reservation is required")
	}
	if reservation.InventoryID == uuid.Nil || reservation.TenantID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "reservation requires tenant and inventory")
	}
	if _, err := NewRange(reservation.StartDate, reservation.EndDate); err != nil {
		return err
	}
	err := r.db.WithContext(ctx).Create(reservation).Error
	if err != nil && dbpkg.IsExclusionViolation(err) {
		return pkgerrors.Wrap(pkgerrors.CodeReservationConflict, err, "inventory has an overlapping reservation").
			WithDetails(ConflictDetails{InventoryID: reservation.InventoryID, ConflictingReservationIDs: []uuid.UUID{}})
	}
	return err
}

func (r *repository) DeleteByFulfilment(ctx context.Context, tenantID, fulfilmentID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("tenant_id = ? AND fulfilment_id = ?", tenantID, fulfilmentID).
		Delete(&models.Reservation{})
	return res.RowsAffected, res.Error
}

func (r *repository) FindByFulfilment(ctx context.Context, tenantID, fulfilmentID uuid.UUID) (*models.Reservation, error) {
	var row models.Reservation
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND fulfilment_id = ?", tenantID, fulfilmentID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Query returns one keyset window of the tenant's reservations, plus one
// extra row when another page follows.
func (r *repository) Query(ctx context.Context, filter Filter) ([]models.Reservation, error) {
	page, err := pagination.Scope(filter.Params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}

	query := r.db.WithContext(ctx).Where("tenant_id = ?", filter.TenantID)
	if filter.InventoryID != nil {
		query = query.Where("inventory_id = ?", *filter.InventoryID)
	}
	if filter.FulfilmentID != nil {
		query = query.Where("fulfilment_id = ?", *filter.FulfilmentID)
	}

	var rows []models.Reservation
	if err := query.Scopes(page).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
