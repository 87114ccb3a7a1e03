package inventory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/rentalfleet-backend/api/middleware"
	internalinventory "github.com/angelmondragon/rentalfleet-backend/internal/inventory"
	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
)

type stubService struct {
	create       func(ctx context.Context, input internalinventory.CreateInput) (*models.InventoryItem, error)
	get          func(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryItem, error)
	updateStatus func(ctx context.Context, input internalinventory.UpdateStatusInput) (*models.InventoryItem, error)
}

func (s stubService) Create(ctx context.Context, input internalinventory.CreateInput) (*models.InventoryItem, error) {
	return s.create(ctx, input)
}

func (s stubService) Get(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryItem, error) {
	return s.get(ctx, tenantID, id)
}

func (s stubService) UpdateStatus(ctx context.Context, input internalinventory.UpdateStatusInput) (*models.InventoryItem, error) {
	return s.updateStatus(ctx, input)
}

func withActor(req *http.Request, tenantID uuid.UUID, inventoryID *uuid.UUID) *http.Request {
	ctx := middleware.WithTenantID(req.Context(), tenantID.String())
	ctx = middleware.WithUserID(ctx, uuid.NewString())
	if inventoryID != nil {
		rctx := chi.NewRouteContext()
		rctx.URLParams.Add("inventoryId", inventoryID.String())
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}
	return req.WithContext(ctx)
}

func TestCreateInventory(t *testing.T) {
	tenantID := uuid.New()
	productID := uuid.New()
	svc := stubService{
		create: func(_ context.Context, input internalinventory.CreateInput) (*models.InventoryItem, error) {
			require.Equal(t, tenantID, input.TenantID)
			require.Equal(t, enums.InventoryStatusReceived, input.Status)
			require.Equal(t, productID, *input.ProductID)
			require.True(t, input.PurchaseCost.Equal(decimal.RequireFromString("129.50")))
			return &models.InventoryItem{ID: uuid.New(), TenantID: tenantID, Status: input.Status, PurchaseCost: input.PurchaseCost}, nil
		},
	}

	body := `{"status":"received","product_id":"` + productID.String() + `","purchase_cost":"129.50"}`
	req := withActor(httptest.NewRequest(http.MethodPost, "/api/v1/inventory", strings.NewReader(body)), tenantID, nil)
	resp := httptest.NewRecorder()
	Create(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var out struct {
		Data struct {
			Status string `json:"status"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out))
	require.Equal(t, "received", out.Data.Status)
}

func TestCreateInventoryRejectsUnknownStatus(t *testing.T) {
	req := withActor(httptest.NewRequest(http.MethodPost, "/api/v1/inventory", strings.NewReader(`{"status":"lost"}`)), uuid.New(), nil)
	resp := httptest.NewRecorder()
	Create(stubService{}, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestGetInventoryNotFound(t *testing.T) {
	inventoryID := uuid.New()
	svc := stubService{
		get: func(context.Context, uuid.UUID, uuid.UUID) (*models.InventoryItem, error) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		},
	}
	req := withActor(httptest.NewRequest(http.MethodGet, "/", nil), uuid.New(), &inventoryID)
	resp := httptest.NewRecorder()
	Get(svc, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusNotFound, resp.Code)
}

func TestUpdateStatusTransitionRejected(t *testing.T) {
	inventoryID := uuid.New()
	svc := stubService{
		updateStatus: func(_ context.Context, input internalinventory.UpdateStatusInput) (*models.InventoryItem, error) {
			require.Equal(t, inventoryID, input.InventoryID)
			require.Equal(t, enums.InventoryStatusAvailable, input.Status)
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "invalid status transition")
		},
	}
	req := withActor(httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"status":"available"}`)), uuid.New(), &inventoryID)
	resp := httptest.NewRecorder()
	UpdateStatus(svc, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}
