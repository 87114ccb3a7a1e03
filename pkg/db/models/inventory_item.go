package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
)

// InventoryItem is a single trackable unit of stock.
type InventoryItem struct {
	ID                      uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	TenantID                uuid.UUID             `gorm:"column:tenant_id;type:uuid;not null;index"`
	Status                  enums.InventoryStatus `gorm:"column:status;type:text;not null"`
	PurchaseOrderID         *uuid.UUID            `gorm:"column:purchase_order_id;type:uuid"`
	PurchaseOrderLineItemID *uuid.UUID            `gorm:"column:purchase_order_line_item_id;type:uuid;index"`
	ProductID               *uuid.UUID            `gorm:"column:product_id;type:uuid"`
	IsThirdPartyRental      bool                  `gorm:"column:is_third_party_rental;not null;default:false"`
	ExpectedReturnDate      *time.Time            `gorm:"column:expected_return_date"`
	ActualReturnDate        *time.Time            `gorm:"column:actual_return_date"`
	PurchaseCost            decimal.Decimal       `gorm:"column:purchase_cost;type:numeric(12,2);not null;default:0"`
	CreatedAt               time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt               time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
