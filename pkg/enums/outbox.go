package enums

import "slices"

// OutboxAggregateType names the aggregate an outbox event belongs to. Events
// for one aggregate share a Pub/Sub ordering key.
type OutboxAggregateType string

const (
	AggregateFulfilment    OutboxAggregateType = "fulfilment"
	AggregatePurchaseOrder OutboxAggregateType = "purchase_order"
	AggregateInventoryItem OutboxAggregateType = "inventory_item"
)

var aggregateTypes = []OutboxAggregateType{AggregateFulfilment, AggregatePurchaseOrder, AggregateInventoryItem}

func (a OutboxAggregateType) IsValid() bool {
	return slices.Contains(aggregateTypes, a)
}

func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	return parse(value, aggregateTypes, "aggregate type")
}

// OutboxEventType is published as the event_type message attribute.
type OutboxEventType string

const (
	EventInventoryAssigned      OutboxEventType = "inventory_assigned"
	EventInventoryUnassigned    OutboxEventType = "inventory_unassigned"
	EventRentalDatesUpdated     OutboxEventType = "rental_dates_updated"
	EventPurchaseOrderSubmitted OutboxEventType = "purchase_order_submitted"
	EventInventoryStatusChanged OutboxEventType = "inventory_status_changed"
)

var eventTypes = []OutboxEventType{
	EventInventoryAssigned,
	EventInventoryUnassigned,
	EventRentalDatesUpdated,
	EventPurchaseOrderSubmitted,
	EventInventoryStatusChanged,
}

func (e OutboxEventType) IsValid() bool {
	return slices.Contains(eventTypes, e)
}

func ParseOutboxEventType(value string) (OutboxEventType, error) {
	return parse(value, eventTypes, "event type")
}
