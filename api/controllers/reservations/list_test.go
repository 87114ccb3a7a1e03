package reservations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/rentalfleet-backend/api/middleware"
	internalreservations "github.com/angelmondragon/rentalfleet-backend/internal/reservations"
	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	"github.com/angelmondragon/rentalfleet-backend/pkg/pagination"
)

type stubService struct {
	list func(ctx context.Context, filter internalreservations.Filter) (*pagination.Page[models.Reservation], error)
}

func (s stubService) List(ctx context.Context, filter internalreservations.Filter) (*pagination.Page[models.Reservation], error) {
	return s.list(ctx, filter)
}

func TestListPassesFilters(t *testing.T) {
	tenantID := uuid.New()
	inventoryID := uuid.New()
	reservationID := uuid.New()

	svc := stubService{
		list: func(_ context.Context, filter internalreservations.Filter) (*pagination.Page[models.Reservation], error) {
			require.Equal(t, tenantID, filter.TenantID)
			require.NotNil(t, filter.InventoryID)
			require.Equal(t, inventoryID, *filter.InventoryID)
			require.Nil(t, filter.FulfilmentID)
			require.Equal(t, 5, filter.Params.Limit)
			require.Equal(t, "abc", filter.Params.Cursor)
			return &pagination.Page[models.Reservation]{
				Items:      []models.Reservation{{ID: reservationID, InventoryID: inventoryID}},
				NextCursor: "next",
			}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations?limit=5&cursor=abc&inventory_id="+inventoryID.String(), nil)
	req = req.WithContext(middleware.WithTenantID(req.Context(), tenantID.String()))
	resp := httptest.NewRecorder()
	List(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Data struct {
			Items []struct {
				ID uuid.UUID `json:"id"`
			} `json:"items"`
			NextCursor string `json:"next_cursor"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	require.Len(t, body.Data.Items, 1)
	require.Equal(t, reservationID, body.Data.Items[0].ID)
	require.Equal(t, "next", body.Data.NextCursor)
}

func TestListRejectsBadQuery(t *testing.T) {
	svc := stubService{
		list: func(context.Context, internalreservations.Filter) (*pagination.Page[models.Reservation], error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	for _, query := range []string{"?limit=0", "?limit=abc", "?fulfilment_id=nope"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reservations"+query, nil)
		req = req.WithContext(middleware.WithTenantID(req.Context(), uuid.NewString()))
		resp := httptest.NewRecorder()
		List(svc, nil).ServeHTTP(resp, req)
		require.Equal(t, http.StatusBadRequest, resp.Code, query)
	}
}
