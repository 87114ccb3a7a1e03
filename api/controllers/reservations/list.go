package reservations

import (
	"net/http"
	"strings"

	"github.com/angelmondragon/rentalfleet-backend/api/middleware"
	"github.com/angelmondragon/rentalfleet-backend/api/responses"
	"github.com/angelmondragon/rentalfleet-backend/api/validators"
	internalreservations "github.com/angelmondragon/rentalfleet-backend/internal/reservations"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
	"github.com/angelmondragon/rentalfleet-backend/pkg/logger"
	"github.com/angelmondragon/rentalfleet-backend/pkg/pagination"
)

type listResponse struct {
	Items      []internalreservations.ReservationDTO `json:"items"`
	NextCursor string                                `json:"next_cursor,omitempty"`
}

// List pages through the tenant's reservations, optionally narrowed to one unit or fulfilment.
func List(svc internalreservations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reservation service unavailable"))
			return
		}
		_, tenantID, err := middleware.RequireActor(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		inventoryID, err := validators.ParseQueryUUID(r, "inventory_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		fulfilmentID, err := validators.ParseQueryUUID(r, "fulfilment_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		page, err := svc.List(r.Context(), internalreservations.Filter{
			TenantID:     tenantID,
			InventoryID:  inventoryID,
			FulfilmentID: fulfilmentID,
			Params: pagination.Params{
				Limit:  limit,
				Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, listResponse{
			Items:      internalreservations.ToDTOs(page.Items),
			NextCursor: page.NextCursor,
		})
	}
}
