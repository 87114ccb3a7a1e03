package reservations

import (
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
)

// Range is a half-open time interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

// NewRange validates that end is strictly after start.
func NewRange(start, end time.Time) (Range, error) {
	if start.IsZero() || end.IsZero() {
		return Range{}, pkgerrors.New(pkgerrors.CodeValidation, "start and end dates are required")
	}
	if !end.After(start) {
		return Range{}, pkgerrors.New(pkgerrors.CodeValidation, "end date must be after start date")
	}
	return Range{Start: start, End: end}, nil
}

// RangeOf returns the interval covered by a reservation.
func RangeOf(r models.Reservation) Range {
	return Range{Start: r.StartDate, End: r.EndDate}
}

// Overlaps reports whether two ranges share any instant. Ranges that only touch, one
// ending exactly when the other starts, do not overlap.
func Overlaps(a, b Range) bool {
	return a.Start.Before(b.End) && b.Start.Before(a.End)
}

// FindConflicts returns the candidates overlapping target. Reservations owned by
// excludeFulfilmentID are skipped so a fulfilment never conflicts with itself.
func FindConflicts(target Range, candidates []models.Reservation, excludeFulfilmentID uuid.UUID) []models.Reservation {
	var conflicts []models.Reservation
	for _, candidate := range candidates {
		if excludeFulfilmentID != uuid.Nil && candidate.FulfilmentID != nil && *candidate.FulfilmentID == excludeFulfilmentID {
			continue
		}
		if Overlaps(target, RangeOf(candidate)) {
			conflicts = append(conflicts, candidate)
		}
	}
	return conflicts
}

// ConflictDetails is attached to RESERVATION_CONFLICT errors.
type ConflictDetails struct {
	InventoryID               uuid.UUID   `json:"inventory_id"`
	ConflictingReservationIDs []uuid.UUID `json:"conflicting_reservation_ids"`
}

// CheckResult reports the outcome of an overlap check. Conflicts is populated even when
// the write was allowed through the override.
type CheckResult struct {
	Conflicts  []models.Reservation
	Overridden bool
}

// ConflictIDs lists the ids of the conflicting reservations.
func (c CheckResult) ConflictIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Conflicts))
	for _, r := range c.Conflicts {
		ids = append(ids, r.ID)
	}
	return ids
}

// Check applies the overlap policy for a write against inventoryID. Any conflict fails
// with RESERVATION_CONFLICT unless allowOverlap is set.
func Check(inventoryID uuid.UUID, target Range, candidates []models.Reservation, excludeFulfilmentID uuid.UUID, allowOverlap bool) (CheckResult, error) {
	conflicts := FindConflicts(target, candidates, excludeFulfilmentID)
	result := CheckResult{Conflicts: conflicts}
	if len(conflicts) == 0 {
		return result, nil
	}
	if !allowOverlap {
		return result, ConflictError(inventoryID, result.ConflictIDs())
	}
	result.Overridden = true
	return result, nil
}

// ConflictError builds the RESERVATION_CONFLICT error for inventoryID.
func ConflictError(inventoryID uuid.UUID, reservationIDs []uuid.UUID) *pkgerrors.Error {
	if reservationIDs == nil {
		reservationIDs = []uuid.UUID{}
	}
	return pkgerrors.New(pkgerrors.CodeReservationConflict, "inventory has an overlapping reservation").
		WithDetails(ConflictDetails{
			InventoryID:               inventoryID,
			ConflictingReservationIDs: reservationIDs,
		})
}
