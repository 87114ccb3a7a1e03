package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
)

// Fulfilment is the single-table storage row behind every fulfilment variant. Rental
// columns stay NULL for sale and service rows.
type Fulfilment struct {
	ID                      uuid.UUID            `gorm:"column:id;type:uuid;primaryKey"`
	TenantID                uuid.UUID            `gorm:"column:tenant_id;type:uuid;not null;index"`
	Type                    enums.FulfilmentType `gorm:"column:type;type:text;not null"`
	RentalStartDate         *time.Time           `gorm:"column:rental_start_date"`
	RentalEndDate           *time.Time           `gorm:"column:rental_end_date"`
	InventoryID             *uuid.UUID           `gorm:"column:inventory_id;type:uuid;index"`
	PurchaseOrderLineItemID *uuid.UUID           `gorm:"column:purchase_order_line_item_id;type:uuid;index"`
	CreatedAt               time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}
