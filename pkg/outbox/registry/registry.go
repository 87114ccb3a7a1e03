// Package registry decodes outbox rows into typed domain events and tells the
// publisher where each event type is sent.
package registry

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/angelmondragon/rentalfleet-backend/pkg/config"
	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
	"github.com/angelmondragon/rentalfleet-backend/pkg/outbox"
	"github.com/angelmondragon/rentalfleet-backend/pkg/outbox/payloads"
)

// EventDescriptor binds an event type to the aggregate it belongs to, its
// topic and the payload type carried in the envelope.
type EventDescriptor struct {
	EventType     enums.OutboxEventType
	AggregateType enums.OutboxAggregateType
	Topic         string
	newPayload    func() any
}

// ResolvedEvent is a validated outbox row ready to publish.
type ResolvedEvent struct {
	Descriptor EventDescriptor
	Envelope   outbox.PayloadEnvelope
	Payload    any
}

// NonRetryableError marks a row that can never be published as stored.
type NonRetryableError struct {
	Err error
}

func (e NonRetryableError) Error() string {
	if e.Err == nil {
		return "non-retryable error"
	}
	return e.Err.Error()
}

func (e NonRetryableError) Unwrap() error {
	return e.Err
}

// NewNonRetryableError wraps err so the dispatcher parks the row.
func NewNonRetryableError(err error) NonRetryableError {
	return NonRetryableError{Err: err}
}

func reject(format string, args ...any) error {
	return NewNonRetryableError(fmt.Errorf(format, args...))
}

// EventRegistry is the fixed catalogue of publishable events.
type EventRegistry struct {
	entries map[enums.OutboxEventType]EventDescriptor
}

func describe[T any](eventType enums.OutboxEventType, aggregate enums.OutboxAggregateType, topic string) EventDescriptor {
	return EventDescriptor{
		EventType:     eventType,
		AggregateType: aggregate,
		Topic:         topic,
		newPayload:    func() any { return new(T) },
	}
}

// NewEventRegistry registers every domain event on the configured topic.
func NewEventRegistry(cfg config.PubSubConfig) (*EventRegistry, error) {
	topic := cfg.DomainTopic
	if topic == "" {
		return nil, errors.New("domain topic is required")
	}

	descriptors := []EventDescriptor{
		describe[payloads.InventoryAssignedEvent](enums.EventInventoryAssigned, enums.AggregateFulfilment, topic),
		describe[payloads.InventoryUnassignedEvent](enums.EventInventoryUnassigned, enums.AggregateFulfilment, topic),
		describe[payloads.RentalDatesUpdatedEvent](enums.EventRentalDatesUpdated, enums.AggregateFulfilment, topic),
		describe[payloads.PurchaseOrderSubmittedEvent](enums.EventPurchaseOrderSubmitted, enums.AggregatePurchaseOrder, topic),
		describe[payloads.InventoryStatusChangedEvent](enums.EventInventoryStatusChanged, enums.AggregateInventoryItem, topic),
	}
	reg := &EventRegistry{entries: make(map[enums.OutboxEventType]EventDescriptor, len(descriptors))}
	for _, desc := range descriptors {
		reg.entries[desc.EventType] = desc
	}
	return reg, nil
}

// Topics lists the distinct topics events are published to.
func (r *EventRegistry) Topics() []string {
	seen := map[string]struct{}{}
	for _, desc := range r.entries {
		seen[desc.Topic] = struct{}{}
	}
	topics := make([]string, 0, len(seen))
	for topic := range seen {
		topics = append(topics, topic)
	}
	sort.Strings(topics)
	return topics
}

// Resolve checks the row against its descriptor and decodes the payload.
// Every failure is non-retryable: a row that fails here will fail the same
// way on the next attempt.
func (r *EventRegistry) Resolve(event models.OutboxEvent) (*ResolvedEvent, error) {
	desc, ok := r.entries[event.EventType]
	switch {
	case !ok:
		return nil, reject("unsupported event type %s", event.EventType)
	case desc.AggregateType != event.AggregateType:
		return nil, reject("aggregate mismatch: expected %s got %s", desc.AggregateType, event.AggregateType)
	case event.AggregateID == uuid.Nil:
		return nil, reject("missing aggregate_id")
	}

	envelope, err := outbox.DecodeEnvelope(event.Payload)
	if err != nil {
		return nil, reject("decode envelope: %w", err)
	}
	if envelope.Type != "" && envelope.Type != event.EventType {
		return nil, reject("envelope type %s does not match row type %s", envelope.Type, event.EventType)
	}
	if envelope.AggregateID != uuid.Nil && envelope.AggregateID != event.AggregateID {
		return nil, reject("envelope aggregate %s does not match row aggregate %s", envelope.AggregateID, event.AggregateID)
	}

	data := bytes.TrimSpace(envelope.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, reject("payload missing for %s", event.EventType)
	}
	payload := desc.newPayload()
	if err := json.Unmarshal(data, payload); err != nil {
		return nil, reject("decode %s payload: %w", event.EventType, err)
	}

	return &ResolvedEvent{Descriptor: desc, Envelope: envelope, Payload: payload}, nil
}
