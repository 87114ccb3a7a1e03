package purchaseorders

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/rentalfleet-backend/api/middleware"
	"github.com/angelmondragon/rentalfleet-backend/internal/autoassign"
	internalpurchaseorders "github.com/angelmondragon/rentalfleet-backend/internal/purchaseorders"
	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
)

type stubService struct {
	submit func(ctx context.Context, input internalpurchaseorders.SubmitInput) (*internalpurchaseorders.SubmitResult, error)
}

func (s stubService) Submit(ctx context.Context, input internalpurchaseorders.SubmitInput) (*internalpurchaseorders.SubmitResult, error) {
	return s.submit(ctx, input)
}

func submitRequest(tenantID, orderID uuid.UUID) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/purchase-orders/"+orderID.String()+"/submit", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("purchaseOrderId", orderID.String())
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = middleware.WithTenantID(ctx, tenantID.String())
	return req.WithContext(ctx)
}

func TestSubmitReturnsUnitsAndMatch(t *testing.T) {
	tenantID := uuid.New()
	orderID := uuid.New()
	lineID := uuid.New()
	unitID := uuid.New()
	fulfilmentID := uuid.New()
	submittedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	svc := stubService{
		submit: func(_ context.Context, input internalpurchaseorders.SubmitInput) (*internalpurchaseorders.SubmitResult, error) {
			require.Equal(t, tenantID, input.TenantID)
			require.Equal(t, orderID, input.PurchaseOrderID)
			return &internalpurchaseorders.SubmitResult{
				PurchaseOrder: &models.PurchaseOrder{ID: orderID, TenantID: tenantID, Status: enums.PurchaseOrderStatusSubmitted, SubmittedAt: &submittedAt},
				Inventory:     []models.InventoryItem{{ID: unitID, Status: enums.InventoryStatusOnOrder, PurchaseOrderLineItemID: &lineID}},
				Match: &autoassign.MatchSummary{
					Assigned: []autoassign.Pair{{LineItemID: lineID, FulfilmentID: fulfilmentID, InventoryID: unitID}},
				},
			}, nil
		},
	}

	resp := httptest.NewRecorder()
	Submit(svc, nil).ServeHTTP(resp, submitRequest(tenantID, orderID))

	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Data struct {
			Status    string `json:"status"`
			Inventory []struct {
				ID uuid.UUID `json:"id"`
			} `json:"inventory"`
			AutoAssign struct {
				Assigned []autoassign.Pair `json:"assigned"`
			} `json:"auto_assignment"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Equal(t, "submitted", body.Data.Status)
	require.Len(t, body.Data.Inventory, 1)
	require.Equal(t, unitID, body.Data.Inventory[0].ID)
	require.Len(t, body.Data.AutoAssign.Assigned, 1)
	require.Equal(t, fulfilmentID, body.Data.AutoAssign.Assigned[0].FulfilmentID)
}

func TestSubmitNotDraft(t *testing.T) {
	svc := stubService{
		submit: func(context.Context, internalpurchaseorders.SubmitInput) (*internalpurchaseorders.SubmitResult, error) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "purchase order is not a draft")
		},
	}
	resp := httptest.NewRecorder()
	Submit(svc, nil).ServeHTTP(resp, submitRequest(uuid.New(), uuid.New()))
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}
