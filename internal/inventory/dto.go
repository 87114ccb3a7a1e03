package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
)

// ItemDTO is the API shape of an inventory unit.
type ItemDTO struct {
	ID                      uuid.UUID             `json:"id"`
	Status                  enums.InventoryStatus `json:"status"`
	PurchaseOrderID         *uuid.UUID            `json:"purchase_order_id,omitempty"`
	PurchaseOrderLineItemID *uuid.UUID            `json:"purchase_order_line_item_id,omitempty"`
	ProductID               *uuid.UUID            `json:"product_id,omitempty"`
	IsThirdPartyRental      bool                  `json:"is_third_party_rental"`
	ExpectedReturnDate      *time.Time            `json:"expected_return_date,omitempty"`
	ActualReturnDate        *time.Time            `json:"actual_return_date,omitempty"`
	PurchaseCost            decimal.Decimal       `json:"purchase_cost"`
	CreatedAt               time.Time             `json:"created_at"`
	UpdatedAt               time.Time             `json:"updated_at"`
}

func ToDTO(item models.InventoryItem) ItemDTO {
	return ItemDTO{
		ID:                      item.ID,
		Status:                  item.Status,
		PurchaseOrderID:         item.PurchaseOrderID,
		PurchaseOrderLineItemID: item.PurchaseOrderLineItemID,
		ProductID:               item.ProductID,
		IsThirdPartyRental:      item.IsThirdPartyRental,
		ExpectedReturnDate:      item.ExpectedReturnDate,
		ActualReturnDate:        item.ActualReturnDate,
		PurchaseCost:            item.PurchaseCost,
		CreatedAt:               item.CreatedAt,
		UpdatedAt:               item.UpdatedAt,
	}
}
