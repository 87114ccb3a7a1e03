package reservations

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
)

// ReservationDTO is the API shape of a reservation.
type ReservationDTO struct {
	ID           uuid.UUID             `json:"id"`
	InventoryID  uuid.UUID             `json:"inventory_id"`
	StartDate    time.Time             `json:"start_date"`
	EndDate      time.Time             `json:"end_date"`
	Type         enums.ReservationType `json:"type"`
	FulfilmentID *uuid.UUID            `json:"fulfilment_id,omitempty"`
	DemandKind   *enums.DemandKind     `json:"demand_kind,omitempty"`
	Overridden   bool                  `json:"overridden"`
	CreatedAt    time.Time             `json:"created_at"`
}

func ToDTO(r models.Reservation) ReservationDTO {
	return ReservationDTO{
		ID:           r.ID,
		InventoryID:  r.InventoryID,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
		Type:         r.Type,
		FulfilmentID: r.FulfilmentID,
		DemandKind:   r.DemandKind,
		Overridden:   r.Overridden,
		CreatedAt:    r.CreatedAt,
	}
}

func ToDTOs(rows []models.Reservation) []ReservationDTO {
	out := make([]ReservationDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, ToDTO(r))
	}
	return out
}
