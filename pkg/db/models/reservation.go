package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
)

// Reservation is a time-interval claim on one inventory unit. Overridden marks rows that
// were written while overlapping another reservation at the caller's request.
type Reservation struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	TenantID     uuid.UUID             `gorm:"column:tenant_id;type:uuid;not null;index"`
	InventoryID  uuid.UUID             `gorm:"column:inventory_id;type:uuid;not null;index"`
	StartDate    time.Time             `gorm:"column:start_date;not null"`
	EndDate      time.Time             `gorm:"column:end_date;not null"`
	Type         enums.ReservationType `gorm:"column:type;type:text;not null"`
	FulfilmentID *uuid.UUID            `gorm:"column:fulfilment_id;type:uuid;index"`
	DemandKind   *enums.DemandKind     `gorm:"column:demand_kind;type:text"`
	Overridden   bool                  `gorm:"column:overridden;not null;default:false"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
}
