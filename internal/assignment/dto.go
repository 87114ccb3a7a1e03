package assignment

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/rentalfleet-backend/internal/fulfilments"
	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
)

// AssignInput binds InventoryID to a rental fulfilment.
type AssignInput struct {
	TenantID                     uuid.UUID
	ActorUserID                  uuid.UUID
	FulfilmentID                 uuid.UUID
	InventoryID                  uuid.UUID
	AllowOverlappingReservations bool
	// RequireUnassigned refuses fulfilments that already hold a unit.
	RequireUnassigned bool
}

// UnassignInput releases whatever unit the fulfilment holds.
type UnassignInput struct {
	TenantID     uuid.UUID
	ActorUserID  uuid.UUID
	FulfilmentID uuid.UUID
}

// RentalDatesInput sets or moves a rental window.
type RentalDatesInput struct {
	TenantID                     uuid.UUID
	ActorUserID                  uuid.UUID
	FulfilmentID                 uuid.UUID
	Start                        time.Time
	End                          time.Time
	AllowOverlappingReservations bool
}

// Result is the state of the fulfilment after a successful write. Conflicts lists the
// reservations that overlapped when the write went through under the override.
type Result struct {
	Fulfilment  *fulfilments.Rental
	Reservation *models.Reservation
	Conflicts   []models.Reservation
	Overridden  bool
}
