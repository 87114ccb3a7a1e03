package autoassign

import (
	"sort"

	"github.com/google/uuid"

	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
)

// Pair is one planned binding of a unit to a fulfilment.
type Pair struct {
	LineItemID   uuid.UUID `json:"purchase_order_line_item_id"`
	FulfilmentID uuid.UUID `json:"fulfilment_id"`
	InventoryID  uuid.UUID `json:"inventory_id"`
}

// Plan is the outcome of pairing units with waiting fulfilments.
type Plan struct {
	Pairs                 []Pair
	UnmatchedInventory    []uuid.UUID
	UnassignedFulfilments []uuid.UUID
}

// BuildPlan pairs units and fulfilments that share a line item. Line items are visited in
// the order given. Within a line item the oldest fulfilment gets the first unit, and the
// shorter side decides how many pairs are made. Fulfilments without a line item are never
// considered.
func BuildPlan(lineItemIDs []uuid.UUID, units []models.InventoryItem, waiting []models.Fulfilment) Plan {
	unitsByLine := make(map[uuid.UUID][]models.InventoryItem)
	for _, unit := range units {
		if unit.PurchaseOrderLineItemID == nil {
			continue
		}
		unitsByLine[*unit.PurchaseOrderLineItemID] = append(unitsByLine[*unit.PurchaseOrderLineItemID], unit)
	}
	waitingByLine := make(map[uuid.UUID][]models.Fulfilment)
	for _, f := range waiting {
		if f.PurchaseOrderLineItemID == nil || f.InventoryID != nil {
			continue
		}
		waitingByLine[*f.PurchaseOrderLineItemID] = append(waitingByLine[*f.PurchaseOrderLineItemID], f)
	}

	var plan Plan
	seen := make(map[uuid.UUID]struct{}, len(lineItemIDs))
	for _, lineItemID := range lineItemIDs {
		if _, dup := seen[lineItemID]; dup {
			continue
		}
		seen[lineItemID] = struct{}{}

		lineUnits := unitsByLine[lineItemID]
		sort.SliceStable(lineUnits, func(i, j int) bool {
			return lineUnits[i].CreatedAt.Before(lineUnits[j].CreatedAt)
		})
		lineWaiting := waitingByLine[lineItemID]
		sortFIFO(lineWaiting)

		n := len(lineUnits)
		if len(lineWaiting) < n {
			n = len(lineWaiting)
		}
		for i := 0; i < n; i++ {
			plan.Pairs = append(plan.Pairs, Pair{
				LineItemID:   lineItemID,
				FulfilmentID: lineWaiting[i].ID,
				InventoryID:  lineUnits[i].ID,
			})
		}
		for _, unit := range lineUnits[n:] {
			plan.UnmatchedInventory = append(plan.UnmatchedInventory, unit.ID)
		}
		for _, f := range lineWaiting[n:] {
			plan.UnassignedFulfilments = append(plan.UnassignedFulfilments, f.ID)
		}
	}
	return plan
}

// sortFIFO orders fulfilments by creation time, breaking ties by id.
func sortFIFO(rows []models.Fulfilment) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].CreatedAt.Equal(rows[j].CreatedAt) {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		}
		return rows[i].ID.String() < rows[j].ID.String()
	})
}
