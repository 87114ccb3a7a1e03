package inventory

import (
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/rentalfleet-backend/api/middleware"
	"github.com/angelmondragon/rentalfleet-backend/api/responses"
	"github.com/angelmondragon/rentalfleet-backend/api/validators"
	internalinventory "github.com/angelmondragon/rentalfleet-backend/internal/inventory"
	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
	"github.com/angelmondragon/rentalfleet-backend/pkg/logger"
)

type createRequest struct {
	Status             string           `json:"status" validate:"omitempty,oneof=on_order received available out_of_service retired"`
	ProductID          *string          `json:"product_id" validate:"omitempty,uuid"`
	IsThirdPartyRental bool             `json:"is_third_party_rental"`
	ExpectedReturnDate *time.Time       `json:"expected_return_date"`
	PurchaseCost       *decimal.Decimal `json:"purchase_cost" validate:"omitempty,gte=0"`
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=on_order received available out_of_service retired"`
}

// Create adds a unit outside purchase-order submission.
func Create(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		_, tenantID, err := middleware.RequireActor(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload createRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.TenantID = tenantID

		item, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalinventory.ToDTO(*item))
	}
}

// Get returns one unit owned by the caller's tenant.
func Get(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		_, tenantID, err := middleware.RequireActor(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		inventoryID, err := validators.ParsePathUUID(r, "inventoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.Get(r.Context(), tenantID, inventoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalinventory.ToDTO(*item))
	}
}

// UpdateStatus moves a unit along its lifecycle.
func UpdateStatus(svc internalinventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}
		userID, tenantID, err := middleware.RequireActor(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		inventoryID, err := validators.ParsePathUUID(r, "inventoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload statusRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		status, err := enums.ParseInventoryStatus(payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status"))
			return
		}

		item, err := svc.UpdateStatus(r.Context(), internalinventory.UpdateStatusInput{
			TenantID:    tenantID,
			ActorUserID: userID,
			InventoryID: inventoryID,
			Status:      status,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, internalinventory.ToDTO(*item))
	}
}
