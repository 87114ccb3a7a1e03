package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
)

// PurchaseOrder groups the line items ordered from a supplier.
type PurchaseOrder struct {
	ID          uuid.UUID                 `gorm:"column:id;type:uuid;primaryKey"`
	TenantID    uuid.UUID                 `gorm:"column:tenant_id;type:uuid;not null;index"`
	Status      enums.PurchaseOrderStatus `gorm:"column:status;type:text;not null"`
	SubmittedAt *time.Time                `gorm:"column:submitted_at"`
	CreatedAt   time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time                 `gorm:"column:updated_at;autoUpdateTime"`

	LineItems []PurchaseOrderLineItem `gorm:"foreignKey:PurchaseOrderID"`
}

// PurchaseOrderLineItem captures the ordered quantity of one product.
type PurchaseOrderLineItem struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	PurchaseOrderID uuid.UUID       `gorm:"column:purchase_order_id;type:uuid;not null;index"`
	TenantID        uuid.UUID       `gorm:"column:tenant_id;type:uuid;not null"`
	ProductID       *uuid.UUID      `gorm:"column:product_id;type:uuid"`
	Quantity        int             `gorm:"column:quantity;not null"`
	UnitCost        decimal.Decimal `gorm:"column:unit_cost;type:numeric(12,2);not null;default:0"`
	CreatedAt       time.Time       `gorm:"column:created_at;autoCreateTime"`
}
