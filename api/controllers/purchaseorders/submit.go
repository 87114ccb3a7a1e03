package purchaseorders

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/angelmondragon/rentalfleet-backend/api/middleware"
	"github.com/angelmondragon/rentalfleet-backend/api/responses"
	"github.com/angelmondragon/rentalfleet-backend/api/validators"
	"github.com/angelmondragon/rentalfleet-backend/internal/autoassign"
	internalinventory "github.com/angelmondragon/rentalfleet-backend/internal/inventory"
	internalpurchaseorders "github.com/angelmondragon/rentalfleet-backend/internal/purchaseorders"
	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
	"github.com/angelmondragon/rentalfleet-backend/pkg/logger"
)

type submitResponse struct {
	ID          uuid.UUID                   `json:"id"`
	Status      enums.PurchaseOrderStatus   `json:"status"`
	SubmittedAt *time.Time                  `json:"submitted_at"`
	Inventory   []internalinventory.ItemDTO `json:"inventory"`
	AutoAssign  *autoassign.MatchSummary    `json:"auto_assignment"`
}

// Submit finalises a draft purchase order, creates its units and runs auto-assignment.
// A nil auto_assignment means the order committed but matching could not run.
func Submit(svc internalpurchaseorders.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "purchase order service unavailable"))
			return
		}
		userID, tenantID, err := middleware.RequireActor(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		orderID, err := validators.ParsePathUUID(r, "purchaseOrderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), internalpurchaseorders.SubmitInput{
			TenantID:        tenantID,
			ActorUserID:     userID,
			PurchaseOrderID: orderID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		units := make([]internalinventory.ItemDTO, 0, len(result.Inventory))
		for _, item := range result.Inventory {
			units = append(units, internalinventory.ToDTO(item))
		}
		responses.WriteSuccess(w, submitResponse{
			ID:          result.PurchaseOrder.ID,
			Status:      result.PurchaseOrder.Status,
			SubmittedAt: result.PurchaseOrder.SubmittedAt,
			Inventory:   units,
			AutoAssign:  result.Match,
		})
	}
}
