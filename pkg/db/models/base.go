package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// assignID fills a missing primary key so rows can be created without relying on a
// database-side default.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// BeforeCreate implements gorm's create hook.
func (i *InventoryItem) BeforeCreate(*gorm.DB) error { assignID(&i.ID); return nil }

// BeforeCreate implements gorm's create hook.
func (f *Fulfilment) BeforeCreate(*gorm.DB) error { assignID(&f.ID); return nil }

// BeforeCreate implements gorm's create hook.
func (r *Reservation) BeforeCreate(*gorm.DB) error { assignID(&r.ID); return nil }

// BeforeCreate implements gorm's create hook.
func (p *PurchaseOrder) BeforeCreate(*gorm.DB) error { assignID(&p.ID); return nil }

// BeforeCreate implements gorm's create hook.
func (l *PurchaseOrderLineItem) BeforeCreate(*gorm.DB) error { assignID(&l.ID); return nil }

// BeforeCreate implements gorm's create hook.
func (o *OutboxEvent) BeforeCreate(*gorm.DB) error { assignID(&o.ID); return nil }

// All lists every persisted model in dependency order.
func All() []any {
	return []any{
		&InventoryItem{},
		&PurchaseOrder{},
		&PurchaseOrderLineItem{},
		&Fulfilment{},
		&Reservation{},
		&OutboxEvent{},
	}
}
