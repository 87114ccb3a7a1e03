package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
)

// ActorRef identifies the user and tenant whose request produced the event.
type ActorRef struct {
	UserID   uuid.UUID `json:"userId"`
	TenantID uuid.UUID `json:"tenantId"`
}

// PayloadEnvelope is the JSON stored in outbox_events.payload and published as the
// message body. Type and AggregateID let consumers route without reading attributes.
type PayloadEnvelope struct {
	Version     int                   `json:"version"`
	EventID     string                `json:"eventId"`
	Type        enums.OutboxEventType `json:"type,omitempty"`
	AggregateID uuid.UUID             `json:"aggregateId"`
	OccurredAt  time.Time             `json:"occurredAt"`
	Actor       *ActorRef             `json:"actor,omitempty"`
	Data        json.RawMessage       `json:"data"`
}

// DecodeEnvelope parses a stored payload.
func DecodeEnvelope(payload []byte) (PayloadEnvelope, error) {
	var env PayloadEnvelope
	err := json.Unmarshal(payload, &env)
	return env, err
}
