package payloads

import (
	"time"

	"github.com/google/uuid"
)

// InventoryAssignedEvent is emitted after a unit is bound to a fulfilment.
type InventoryAssignedEvent struct {
	TenantID                uuid.UUID   `json:"tenant_id"`
	FulfilmentID            uuid.UUID   `json:"fulfilment_id"`
	InventoryID             uuid.UUID   `json:"inventory_id"`
	PreviousInventoryID     *uuid.UUID  `json:"previous_inventory_id,omitempty"`
	PurchaseOrderLineItemID *uuid.UUID  `json:"purchase_order_line_item_id,omitempty"`
	ReservationID           *uuid.UUID  `json:"reservation_id,omitempty"`
	Overridden              bool        `json:"overridden"`
	ConflictingReservations []uuid.UUID `json:"conflicting_reservation_ids,omitempty"`
}

// InventoryUnassignedEvent is emitted when a fulfilment releases its unit.
type InventoryUnassignedEvent struct {
	TenantID     uuid.UUID `json:"tenant_id"`
	FulfilmentID uuid.UUID `json:"fulfilment_id"`
	InventoryID  uuid.UUID `json:"inventory_id"`
}

// RentalDatesUpdatedEvent records a change to a rental fulfilment's window.
type RentalDatesUpdatedEvent struct {
	TenantID      uuid.UUID  `json:"tenant_id"`
	FulfilmentID  uuid.UUID  `json:"fulfilment_id"`
	StartDate     time.Time  `json:"start_date"`
	EndDate       time.Time  `json:"end_date"`
	InventoryID   *uuid.UUID `json:"inventory_id,omitempty"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`
}

// PurchaseOrderSubmittedEvent lists the units created by a submission.
type PurchaseOrderSubmittedEvent struct {
	TenantID        uuid.UUID   `json:"tenant_id"`
	PurchaseOrderID uuid.UUID   `json:"purchase_order_id"`
	LineItemIDs     []uuid.UUID `json:"line_item_ids"`
	InventoryIDs    []uuid.UUID `json:"inventory_ids"`
	SubmittedAt     time.Time   `json:"submitted_at"`
}

// InventoryStatusChangedEvent records an operator status transition.
type InventoryStatusChangedEvent struct {
	TenantID    uuid.UUID `json:"tenant_id"`
	InventoryID uuid.UUID `json:"inventory_id"`
	From        string    `json:"from"`
	To          string    `json:"to"`
}
