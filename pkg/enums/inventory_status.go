package enums

import "slices"

// InventoryStatus tracks the lifecycle of a physical inventory unit.
type InventoryStatus string

const (
	InventoryStatusOnOrder      InventoryStatus = "on_order"
	InventoryStatusReceived     InventoryStatus = "received"
	InventoryStatusAvailable    InventoryStatus = "available"
	InventoryStatusOutOfService InventoryStatus = "out_of_service"
	InventoryStatusRetired      InventoryStatus = "retired"
)

var validInventoryStatuses = []InventoryStatus{
	InventoryStatusOnOrder,
	InventoryStatusReceived,
	InventoryStatusAvailable,
	InventoryStatusOutOfService,
	InventoryStatusRetired,
}

// inventoryTransitions lists the statuses reachable from each status.
var inventoryTransitions = map[InventoryStatus][]InventoryStatus{
	InventoryStatusOnOrder:      {InventoryStatusReceived, InventoryStatusRetired},
	InventoryStatusReceived:     {InventoryStatusAvailable, InventoryStatusOutOfService, InventoryStatusRetired},
	InventoryStatusAvailable:    {InventoryStatusOutOfService, InventoryStatusRetired},
	InventoryStatusOutOfService: {InventoryStatusAvailable, InventoryStatusRetired},
}

// String implements fmt.Stringer.
func (s InventoryStatus) String() string {
	return string(s)
}

// IsValid reports whether s is a known InventoryStatus.
func (s InventoryStatus) IsValid() bool {
	return slices.Contains(validInventoryStatuses, s)
}

// CanTransitionTo reports whether moving from s to next is allowed.
func (s InventoryStatus) CanTransitionTo(next InventoryStatus) bool {
	return slices.Contains(inventoryTransitions[s], next)
}

func ParseInventoryStatus(value string) (InventoryStatus, error) {
	return parse(value, validInventoryStatuses, "inventory status")
}
