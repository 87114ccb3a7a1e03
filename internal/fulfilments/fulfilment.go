package fulfilments

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/rentalfleet-backend/internal/reservations"
	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
)

// Fulfilment is one demand line. The concrete type is *Rental, *Sale or *ServiceLine; only
// rentals take part in time-bounded reservation and inventory assignment.
type Fulfilment interface {
	Kind() enums.FulfilmentType
	Meta() Common
}

// Common holds the fields shared by every variant.
type Common struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Meta returns the shared fields.
func (c Common) Meta() Common { return c }

// Rental is a fulfilment that occupies one inventory unit over a rental window.
type Rental struct {
	Common
	RentalStartDate         *time.Time `json:"rental_start_date"`
	RentalEndDate           *time.Time `json:"rental_end_date"`
	InventoryID             *uuid.UUID `json:"inventory_id"`
	PurchaseOrderLineItemID *uuid.UUID `json:"purchase_order_line_item_id"`
}

func (*Rental) Kind() enums.FulfilmentType { return enums.FulfilmentTypeRental }

// Window returns the rental interval when both dates are set.
func (r *Rental) Window() (reservations.Range, bool) {
	if r.RentalStartDate == nil || r.RentalEndDate == nil {
		return reservations.Range{}, false
	}
	return reservations.Range{Start: *r.RentalStartDate, End: *r.RentalEndDate}, true
}

// Assigned reports whether a unit is currently bound to the rental.
func (r *Rental) Assigned() bool {
	return r.InventoryID != nil
}

// Sale is a fulfilment that hands over stock permanently.
type Sale struct {
	Common
}

func (*Sale) Kind() enums.FulfilmentType { return enums.FulfilmentTypeSale }

// ServiceLine is a labour or service demand line with no inventory.
type ServiceLine struct {
	Common
}

func (*ServiceLine) Kind() enums.FulfilmentType { return enums.FulfilmentTypeService }

// FromModel converts the storage row into its variant.
func FromModel(m models.Fulfilment) (Fulfilment, error) {
	common := Common{ID: m.ID, TenantID: m.TenantID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
	switch m.Type {
	case enums.FulfilmentTypeRental:
		return &Rental{
			Common:                  common,
			RentalStartDate:         m.RentalStartDate,
			RentalEndDate:           m.RentalEndDate,
			InventoryID:             m.InventoryID,
			PurchaseOrderLineItemID: m.PurchaseOrderLineItemID,
		}, nil
	case enums.FulfilmentTypeSale:
		return &Sale{Common: common}, nil
	case enums.FulfilmentTypeService:
		return &ServiceLine{Common: common}, nil
	default:
		return nil, fmt.Errorf("unknown fulfilment type %q", m.Type)
	}
}

// ToModel converts a rental back into its storage row.
func (r *Rental) ToModel() models.Fulfilment {
	return models.Fulfilment{
		ID:                      r.ID,
		TenantID:                r.TenantID,
		Type:                    enums.FulfilmentTypeRental,
		RentalStartDate:         r.RentalStartDate,
		RentalEndDate:           r.RentalEndDate,
		InventoryID:             r.InventoryID,
		PurchaseOrderLineItemID: r.PurchaseOrderLineItemID,
		CreatedAt:               r.CreatedAt,
		UpdatedAt:               r.UpdatedAt,
	}
}
