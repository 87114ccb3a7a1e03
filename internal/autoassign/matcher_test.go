package autoassign

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/rentalfleet-backend/internal/assignment"
	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
)

type stubSource struct {
	rows []models.Fulfilment
	err  error
}

func (s stubSource) ListUnassignedRentals(context.Context, uuid.UUID, []uuid.UUID) ([]models.Fulfilment, error) {
	return s.rows, s.err
}

type stubAssigner struct {
	fail  map[uuid.UUID]error
	calls []assignment.AssignInput
}

func (s *stubAssigner) Assign(_ context.Context, input assignment.AssignInput) (*assignment.Result, error) {
	s.calls = append(s.calls, input)
	if err := s.fail[input.FulfilmentID]; err != nil {
		return nil, err
	}
	return &assignment.Result{}, nil
}

func TestMatchCollectsFailuresAndContinues(t *testing.T) {
	line := uuid.New()
	first := waitingFor(&line, t0)
	second := waitingFor(&line, t0.Add(1))
	conflict := pkgerrors.New(pkgerrors.CodeReservationConflict, "inventory has an overlapping reservation")
	assigner := &stubAssigner{fail: map[uuid.UUID]error{first.ID: conflict}}
	matcher, err := NewMatcher(assigner, stubSource{rows: []models.Fulfilment{first, second}}, nil, nil)
	require.NoError(t, err)

	tenantID := uuid.New()
	summary, err := matcher.Match(context.Background(), MatchInput{
		TenantID:    tenantID,
		LineItemIDs: []uuid.UUID{line},
		Inventory:   []models.InventoryItem{unitFor(line), unitFor(line)},
	})
	require.NoError(t, err)
	require.Len(t, assigner.calls, 2)
	for _, call := range assigner.calls {
		require.Equal(t, tenantID, call.TenantID)
		require.False(t, call.AllowOverlappingReservations)
		require.True(t, call.RequireUnassigned)
	}
	require.Len(t, summary.Assigned, 1)
	require.Equal(t, second.ID, summary.Assigned[0].FulfilmentID)
	require.Len(t, summary.Failed, 1)
	require.Equal(t, pkgerrors.CodeReservationConflict, summary.Failed[0].Code)
	require.Error(t, summary.Err())
	require.True(t, pkgerrors.HasCode(summary.Err(), pkgerrors.CodeReservationConflict))
}

func TestMatchStopsAssigningWhenContextEnds(t *testing.T) {
	line := uuid.New()
	assigner := &stubAssigner{}
	matcher, err := NewMatcher(assigner, stubSource{rows: []models.Fulfilment{waitingFor(&line, t0)}}, nil, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	summary, err := matcher.Match(ctx, MatchInput{TenantID: uuid.New(), LineItemIDs: []uuid.UUID{line}, Inventory: []models.InventoryItem{unitFor(line)}})
	require.NoError(t, err)
	require.Empty(t, assigner.calls)
	require.Len(t, summary.Failed, 1)
	require.ErrorIs(t, summary.Err(), context.Canceled)
}

func TestMatchReportsSourceErrors(t *testing.T) {
	matcher, err := NewMatcher(&stubAssigner{}, stubSource{err: errors.New("boom")}, nil, nil)
	require.NoError(t, err)
	_, err = matcher.Match(context.Background(), MatchInput{TenantID: uuid.New()})
	require.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
}

func TestNewMatcherRequiresDependencies(t *testing.T) {
	_, err := NewMatcher(nil, stubSource{}, nil, nil)
	require.Error(t, err)
	_, err = NewMatcher(&stubAssigner{}, nil, nil, nil)
	require.Error(t, err)
}
