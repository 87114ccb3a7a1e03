package fulfilments

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/rentalfleet-backend/api/middleware"
	"github.com/angelmondragon/rentalfleet-backend/api/responses"
	"github.com/angelmondragon/rentalfleet-backend/api/validators"
	"github.com/angelmondragon/rentalfleet-backend/internal/assignment"
	internalfulfilments "github.com/angelmondragon/rentalfleet-backend/internal/fulfilments"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
	"github.com/angelmondragon/rentalfleet-backend/pkg/logger"
)

// AssignInventory binds the inventory unit in the body to the fulfilment in the path.
func AssignInventory(svc assignment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}
		userID, tenantID, err := middleware.RequireActor(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		fulfilmentID, err := validators.ParsePathUUID(r, "fulfilmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload assignInventoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		inventoryID, err := uuid.Parse(payload.InventoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid inventory id"))
			return
		}

		result, err := svc.Assign(r.Context(), assignment.AssignInput{
			TenantID:                     tenantID,
			ActorUserID:                  userID,
			FulfilmentID:                 fulfilmentID,
			InventoryID:                  inventoryID,
			AllowOverlappingReservations: payload.AllowOverlappingReservations,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newAssignmentResponse(result))
	}
}

// UnassignInventory releases the fulfilment's unit. Repeating the call is harmless.
func UnassignInventory(svc assignment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}
		userID, tenantID, err := middleware.RequireActor(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		fulfilmentID, err := validators.ParsePathUUID(r, "fulfilmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Unassign(r.Context(), assignment.UnassignInput{
			TenantID:     tenantID,
			ActorUserID:  userID,
			FulfilmentID: fulfilmentID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newAssignmentResponse(result))
	}
}

// SetRentalDates moves a rental window, keeping any held reservation in step.
func SetRentalDates(svc assignment.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "assignment service unavailable"))
			return
		}
		userID, tenantID, err := middleware.RequireActor(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		fulfilmentID, err := validators.ParsePathUUID(r, "fulfilmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload rentalDatesRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.SetRentalDates(r.Context(), assignment.RentalDatesInput{
			TenantID:                     tenantID,
			ActorUserID:                  userID,
			FulfilmentID:                 fulfilmentID,
			Start:                        payload.StartDate.UTC(),
			End:                          payload.EndDate.UTC(),
			AllowOverlappingReservations: payload.AllowOverlappingReservations,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newAssignmentResponse(result))
	}
}

// Get returns a fulfilment of any kind.
func Get(svc internalfulfilments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "fulfilment service unavailable"))
			return
		}
		_, tenantID, err := middleware.RequireActor(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		fulfilmentID, err := validators.ParsePathUUID(r, "fulfilmentId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		f, err := svc.Get(r.Context(), tenantID, fulfilmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalfulfilments.ToDTO(f))
	}
}
