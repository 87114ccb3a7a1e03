package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/rentalfleet-backend/pkg/db/dbtest"
	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
	"github.com/angelmondragon/rentalfleet-backend/pkg/pagination"
)

func newReservation(tenantID, inventoryID, fulfilmentID uuid.UUID, start, end int, createdAt time.Time) *models.Reservation {
	kind := enums.DemandKindRental
	return &models.Reservation{
		TenantID:     tenantID,
		InventoryID:  inventoryID,
		StartDate:    day(start),
		EndDate:      day(end),
		Type:         enums.ReservationTypeFulfilment,
		FulfilmentID: &fulfilmentID,
		DemandKind:   &kind,
		CreatedAt:    createdAt,
	}
}

func TestRepositoryCreateListDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t))
	tenantID := uuid.New()
	inventoryID := uuid.New()
	first := uuid.New()
	second := uuid.New()

	require.NoError(t, repo.Create(ctx, newReservation(tenantID, inventoryID, first, 20, 30, day0)))
	require.NoError(t, repo.Create(ctx, newReservation(tenantID, inventoryID, second, 10, 20, day0)))
	require.NoError(t, repo.Create(ctx, newReservation(uuid.New(), inventoryID, uuid.New(), 1, 2, day0)))

	rows, err := repo.ListActive(ctx, tenantID, inventoryID)
	require.NoError(t, err)
	require.Len(t, rows, 2, "other tenants' rows are invisible")
	require.Equal(t, second, *rows[0].FulfilmentID, "ordered by start date")

	found, err := repo.FindByFulfilment(ctx, tenantID, first)
	require.NoError(t, err)
	require.NotNil(t, found)

	deleted, err := repo.DeleteByFulfilment(ctx, tenantID, first)
	require.NoError(t, err)
	require.EqualValues(t, 1, deleted)

	deleted, err = repo.DeleteByFulfilment(ctx, tenantID, first)
	require.NoError(t, err, "deleting twice is not an error")
	require.Zero(t, deleted)

	found, err = repo.FindByFulfilment(ctx, tenantID, first)
	require.NoError(t, err)
	require.Nil(t, found)
}

func TestRepositoryCreateValidatesWindow(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	err := repo.Create(context.Background(), newReservation(uuid.New(), uuid.New(), uuid.New(), 5, 5, day0))
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestRepositoryQueryFiltersAndPaginates(t *testing.T) {
	ctx := context.Background()
	repo := NewRepository(dbtest.Open(t))
	tenantID := uuid.New()
	unitA := uuid.New()
	unitB := uuid.New()
	fulfilment := uuid.New()

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Create(ctx, newReservation(tenantID, unitA, uuid.New(), i*10, i*10+5, day0.Add(time.Duration(i)*time.Hour))))
	}
	require.NoError(t, repo.Create(ctx, newReservation(tenantID, unitB, fulfilment, 1, 3, day0.Add(5*time.Hour))))

	byUnit, err := repo.Query(ctx, Filter{TenantID: tenantID, InventoryID: &unitA, Params: pagination.Params{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, byUnit, 3, "one extra row signals another page")

	byFulfilment, err := repo.Query(ctx, Filter{TenantID: tenantID, FulfilmentID: &fulfilment})
	require.NoError(t, err)
	require.Len(t, byFulfilment, 1)
	require.Equal(t, unitB, byFulfilment[0].InventoryID)

	cursor := pagination.EncodeCursor(pagination.Cursor{CreatedAt: byUnit[1].CreatedAt, ID: byUnit[1].ID})
	rest, err := repo.Query(ctx, Filter{TenantID: tenantID, InventoryID: &unitA, Params: pagination.Params{Limit: 2, Cursor: cursor}})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	require.Equal(t, byUnit[2].ID, rest[0].ID)

	_, err = repo.Query(ctx, Filter{TenantID: tenantID, Params: pagination.Params{Cursor: "###"}})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}
