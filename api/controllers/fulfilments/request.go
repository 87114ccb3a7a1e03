package fulfilments

import "time"

type assignInventoryRequest struct {
	InventoryID                  string `json:"inventory_id" validate:"required,uuid"`
	AllowOverlappingReservations bool   `json:"allow_overlapping_reservations"`
}

type rentalDatesRequest struct {
	StartDate                    time.Time `json:"start_date" validate:"required"`
	EndDate                      time.Time `json:"end_date" validate:"required,gtfield=StartDate"`
	AllowOverlappingReservations bool      `json:"allow_overlapping_reservations"`
}
