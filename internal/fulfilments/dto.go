package fulfilments

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
)

// DTO is the API shape of any fulfilment variant. Rental-only fields stay empty for the
// other kinds.
type DTO struct {
	Common
	Type                    enums.FulfilmentType `json:"type"`
	RentalStartDate         *time.Time           `json:"rental_start_date,omitempty"`
	RentalEndDate           *time.Time           `json:"rental_end_date,omitempty"`
	InventoryID             *uuid.UUID           `json:"inventory_id"`
	PurchaseOrderLineItemID *uuid.UUID           `json:"purchase_order_line_item_id"`
}

func ToDTO(f Fulfilment) DTO {
	out := DTO{Common: f.Meta(), Type: f.Kind()}
	if rental, ok := f.(*Rental); ok {
		out.RentalStartDate = rental.RentalStartDate
		out.RentalEndDate = rental.RentalEndDate
		out.InventoryID = rental.InventoryID
		out.PurchaseOrderLineItemID = rental.PurchaseOrderLineItemID
	}
	return out
}
