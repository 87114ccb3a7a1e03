package fulfilments

import (
	"github.com/google/uuid"

	"github.com/angelmondragon/rentalfleet-backend/internal/assignment"
	internalfulfilments "github.com/angelmondragon/rentalfleet-backend/internal/fulfilments"
	"github.com/angelmondragon/rentalfleet-backend/internal/reservations"
)

type assignmentResponse struct {
	Fulfilment                internalfulfilments.DTO      `json:"fulfilment"`
	Reservation               *reservations.ReservationDTO `json:"reservation"`
	Overridden                bool                         `json:"overridden"`
	ConflictingReservationIDs []uuid.UUID                  `json:"conflicting_reservation_ids"`
}

func newAssignmentResponse(result *assignment.Result) assignmentResponse {
	out := assignmentResponse{
		Fulfilment:                internalfulfilments.ToDTO(result.Fulfilment),
		Overridden:                result.Overridden,
		ConflictingReservationIDs: reservations.CheckResult{Conflicts: result.Conflicts}.ConflictIDs(),
	}
	if result.Reservation != nil {
		dto := reservations.ToDTO(*result.Reservation)
		out.Reservation = &dto
	}
	return out
}
