package fulfilments

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/rentalfleet-backend/api/middleware"
	"github.com/angelmondragon/rentalfleet-backend/internal/assignment"
	internalfulfilments "github.com/angelmondragon/rentalfleet-backend/internal/fulfilments"
	"github.com/angelmondragon/rentalfleet-backend/internal/reservations"
	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
)

type stubAssignment struct {
	assign   func(ctx context.Context, input assignment.AssignInput) (*assignment.Result, error)
	unassign func(ctx context.Context, input assignment.UnassignInput) (*assignment.Result, error)
	dates    func(ctx context.Context, input assignment.RentalDatesInput) (*assignment.Result, error)
}

func (s stubAssignment) Assign(ctx context.Context, input assignment.AssignInput) (*assignment.Result, error) {
	return s.assign(ctx, input)
}

func (s stubAssignment) Unassign(ctx context.Context, input assignment.UnassignInput) (*assignment.Result, error) {
	return s.unassign(ctx, input)
}

func (s stubAssignment) SetRentalDates(ctx context.Context, input assignment.RentalDatesInput) (*assignment.Result, error) {
	return s.dates(ctx, input)
}

type stubFulfilments struct {
	get func(ctx context.Context, tenantID, id uuid.UUID) (internalfulfilments.Fulfilment, error)
}

func (s stubFulfilments) Get(ctx context.Context, tenantID, id uuid.UUID) (internalfulfilments.Fulfilment, error) {
	return s.get(ctx, tenantID, id)
}

func newRequest(method, target, body string, fulfilmentID uuid.UUID, tenantID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("fulfilmentId", fulfilmentID.String())
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = middleware.WithUserID(ctx, uuid.NewString())
	if tenantID != uuid.Nil {
		ctx = middleware.WithTenantID(ctx, tenantID.String())
	}
	return req.WithContext(ctx)
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code      string          `json:"code"`
		Retryable bool            `json:"retryable"`
		Details   json.RawMessage `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, resp *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &env))
	return env
}

func TestAssignInventorySuccess(t *testing.T) {
	tenantID := uuid.New()
	fulfilmentID := uuid.New()
	inventoryID := uuid.New()
	reservationID := uuid.New()
	start := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 10)

	svc := stubAssignment{
		assign: func(_ context.Context, input assignment.AssignInput) (*assignment.Result, error) {
			require.Equal(t, tenantID, input.TenantID)
			require.Equal(t, fulfilmentID, input.FulfilmentID)
			require.Equal(t, inventoryID, input.InventoryID)
			require.True(t, input.AllowOverlappingReservations)
			return &assignment.Result{
				Fulfilment: &internalfulfilments.Rental{
					Common:          internalfulfilments.Common{ID: fulfilmentID, TenantID: tenantID},
					RentalStartDate: &start,
					RentalEndDate:   &end,
					InventoryID:     &inventoryID,
				},
				Reservation: &models.Reservation{ID: reservationID, InventoryID: inventoryID, StartDate: start, EndDate: end, Overridden: true},
				Conflicts:   []models.Reservation{{ID: uuid.New()}},
				Overridden:  true,
			}, nil
		},
	}

	body := `{"inventory_id":"` + inventoryID.String() + `","allow_overlapping_reservations":true}`
	req := newRequest(http.MethodPost, "/api/v1/fulfilments/"+fulfilmentID.String()+"/inventory", body, fulfilmentID, tenantID)
	resp := httptest.NewRecorder()
	AssignInventory(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var out struct {
		Fulfilment struct {
			ID          uuid.UUID `json:"id"`
			InventoryID uuid.UUID `json:"inventory_id"`
			Type        string    `json:"type"`
		} `json:"fulfilment"`
		Reservation struct {
			ID         uuid.UUID `json:"id"`
			Overridden bool      `json:"overridden"`
		} `json:"reservation"`
		Overridden  bool        `json:"overridden"`
		ConflictIDs []uuid.UUID `json:"conflicting_reservation_ids"`
	}
	require.NoError(t, json.Unmarshal(decode(t, resp).Data, &out))
	require.Equal(t, fulfilmentID, out.Fulfilment.ID)
	require.Equal(t, inventoryID, out.Fulfilment.InventoryID)
	require.Equal(t, "rental", out.Fulfilment.Type)
	require.Equal(t, reservationID, out.Reservation.ID)
	require.True(t, out.Reservation.Overridden)
	require.True(t, out.Overridden)
	require.Len(t, out.ConflictIDs, 1)
}

func TestAssignInventoryConflict(t *testing.T) {
	tenantID := uuid.New()
	fulfilmentID := uuid.New()
	inventoryID := uuid.New()
	conflictID := uuid.New()

	svc := stubAssignment{
		assign: func(context.Context, assignment.AssignInput) (*assignment.Result, error) {
			return nil, reservations.ConflictError(inventoryID, []uuid.UUID{conflictID})
		},
	}

	body := `{"inventory_id":"` + inventoryID.String() + `"}`
	req := newRequest(http.MethodPost, "/", body, fulfilmentID, tenantID)
	resp := httptest.NewRecorder()
	AssignInventory(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusConflict, resp.Code)
	env := decode(t, resp)
	require.NotNil(t, env.Error)
	require.Equal(t, string(pkgerrors.CodeReservationConflict), env.Error.Code)
	require.False(t, env.Error.Retryable)

	var details reservations.ConflictDetails
	require.NoError(t, json.Unmarshal(env.Error.Details, &details))
	require.Equal(t, inventoryID, details.InventoryID)
	require.Equal(t, []uuid.UUID{conflictID}, details.ConflictingReservationIDs)
}

func TestAssignInventoryValidation(t *testing.T) {
	svc := stubAssignment{
		assign: func(context.Context, assignment.AssignInput) (*assignment.Result, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}

	cases := map[string]string{
		"missing inventory": `{}`,
		"malformed uuid":    `{"inventory_id":"nope"}`,
		"unknown field":     `{"inventory_id":"` + uuid.NewString() + `","extra":1}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			req := newRequest(http.MethodPost, "/", body, uuid.New(), uuid.New())
			resp := httptest.NewRecorder()
			AssignInventory(svc, nil).ServeHTTP(resp, req)
			require.Equal(t, http.StatusBadRequest, resp.Code)
		})
	}
}

func TestAssignInventoryRequiresTenant(t *testing.T) {
	req := newRequest(http.MethodPost, "/", `{"inventory_id":"`+uuid.NewString()+`"}`, uuid.New(), uuid.Nil)
	resp := httptest.NewRecorder()
	AssignInventory(stubAssignment{}, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestAssignInventoryTransactionConflictIsRetryable(t *testing.T) {
	svc := stubAssignment{
		assign: func(context.Context, assignment.AssignInput) (*assignment.Result, error) {
			return nil, pkgerrors.New(pkgerrors.CodeTxConflict, "assign inventory")
		},
	}
	req := newRequest(http.MethodPost, "/", `{"inventory_id":"`+uuid.NewString()+`"}`, uuid.New(), uuid.New())
	resp := httptest.NewRecorder()
	AssignInventory(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusConflict, resp.Code)
	env := decode(t, resp)
	require.Equal(t, string(pkgerrors.CodeTxConflict), env.Error.Code)
	require.True(t, env.Error.Retryable)
}

func TestUnassignInventory(t *testing.T) {
	tenantID := uuid.New()
	fulfilmentID := uuid.New()
	svc := stubAssignment{
		unassign: func(_ context.Context, input assignment.UnassignInput) (*assignment.Result, error) {
			require.Equal(t, fulfilmentID, input.FulfilmentID)
			return &assignment.Result{
				Fulfilment: &internalfulfilments.Rental{Common: internalfulfilments.Common{ID: fulfilmentID, TenantID: tenantID}},
			}, nil
		},
	}
	req := newRequest(http.MethodDelete, "/", "", fulfilmentID, tenantID)
	resp := httptest.NewRecorder()
	UnassignInventory(svc, nil).ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(decode(t, resp).Data, &out))
	require.Nil(t, out["reservation"])
	require.Equal(t, false, out["overridden"])
}

func TestSetRentalDatesRejectsInvertedRange(t *testing.T) {
	svc := stubAssignment{
		dates: func(context.Context, assignment.RentalDatesInput) (*assignment.Result, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}
	body := `{"start_date":"2026-03-20T00:00:00Z","end_date":"2026-03-10T00:00:00Z"}`
	req := newRequest(http.MethodPut, "/", body, uuid.New(), uuid.New())
	resp := httptest.NewRecorder()
	SetRentalDates(svc, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestSetRentalDatesPassesWindow(t *testing.T) {
	fulfilmentID := uuid.New()
	svc := stubAssignment{
		dates: func(_ context.Context, input assignment.RentalDatesInput) (*assignment.Result, error) {
			require.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), input.Start)
			require.Equal(t, time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC), input.End)
			require.False(t, input.AllowOverlappingReservations)
			return &assignment.Result{
				Fulfilment: &internalfulfilments.Rental{
					Common:          internalfulfilments.Common{ID: fulfilmentID},
					RentalStartDate: &input.Start,
					RentalEndDate:   &input.End,
				},
			}, nil
		},
	}
	body := `{"start_date":"2026-03-10T00:00:00Z","end_date":"2026-03-20T00:00:00Z"}`
	req := newRequest(http.MethodPut, "/", body, fulfilmentID, uuid.New())
	resp := httptest.NewRecorder()
	SetRentalDates(svc, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
}

func TestGetFulfilment(t *testing.T) {
	tenantID := uuid.New()
	fulfilmentID := uuid.New()
	svc := stubFulfilments{
		get: func(_ context.Context, gotTenant, id uuid.UUID) (internalfulfilments.Fulfilment, error) {
			require.Equal(t, tenantID, gotTenant)
			if id != fulfilmentID {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "fulfilment not found")
			}
			return &internalfulfilments.Sale{Common: internalfulfilments.Common{ID: id, TenantID: tenantID}}, nil
		},
	}

	req := newRequest(http.MethodGet, "/", "", fulfilmentID, tenantID)
	resp := httptest.NewRecorder()
	Get(svc, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code)
	var out map[string]any
	require.NoError(t, json.Unmarshal(decode(t, resp).Data, &out))
	require.Equal(t, "sale", out["type"])
	require.NotContains(t, out, "rental_start_date")

	req = newRequest(http.MethodGet, "/", "", uuid.New(), tenantID)
	resp = httptest.NewRecorder()
	Get(svc, nil).ServeHTTP(resp, req)
	require.Equal(t, http.StatusNotFound, resp.Code)
}
