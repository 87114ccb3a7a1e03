package enums

import "testing"

func TestInventoryStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to InventoryStatus
		allowed  bool
	}{
		{InventoryStatusOnOrder, InventoryStatusReceived, true},
		{InventoryStatusOnOrder, InventoryStatusAvailable, false},
		{InventoryStatusReceived, InventoryStatusAvailable, true},
		{InventoryStatusAvailable, InventoryStatusOutOfService, true},
		{InventoryStatusOutOfService, InventoryStatusAvailable, true},
		{InventoryStatusRetired, InventoryStatusAvailable, false},
	}
	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.allowed {
			t.Errorf("%s -> %s: expected %v, got %v", tc.from, tc.to, tc.allowed, got)
		}
	}
}

func TestParseHelpers(t *testing.T) {
	if _, err := ParseInventoryStatus("received"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := ParseInventoryStatus("lost"); err == nil {
		t.Fatal("expected error for unknown status")
	}
	if ft, err := ParseFulfilmentType("rental"); err != nil || ft != FulfilmentTypeRental {
		t.Fatalf("unexpected parse result %q %v", ft, err)
	}
	if _, err := ParsePurchaseOrderStatus("approved"); err == nil {
		t.Fatal("expected error for unknown purchase order status")
	}
	if !EventInventoryAssigned.IsValid() || OutboxEventType("nope").IsValid() {
		t.Fatal("unexpected event type validity")
	}
}

func TestParseNamesKind(t *testing.T) {
	_, err := ParseOutboxAggregateType("warehouse")
	if err == nil || err.Error() != `invalid aggregate type "warehouse"` {
		t.Fatalf("unexpected error %v", err)
	}
	agg, err := ParseOutboxAggregateType("inventory_item")
	if err != nil || agg != AggregateInventoryItem || !agg.IsValid() {
		t.Fatalf("unexpected parse result %q %v", agg, err)
	}
	if ev, err := ParseOutboxEventType("rental_dates_updated"); err != nil || ev != EventRentalDatesUpdated {
		t.Fatalf("unexpected parse result %q %v", ev, err)
	}
}
