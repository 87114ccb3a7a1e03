package autoassign

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/multierr"

	"github.com/angelmondragon/rentalfleet-backend/internal/assignment"
	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
	"github.com/angelmondragon/rentalfleet-backend/pkg/logger"
	"github.com/angelmondragon/rentalfleet-backend/pkg/metrics"
	"github.com/angelmondragon/rentalfleet-backend/pkg/tracing"
)

// Assigner performs one explicit assignment.
type Assigner interface {
	Assign(ctx context.Context, input assignment.AssignInput) (*assignment.Result, error)
}

// FulfilmentSource lists rentals waiting for a unit.
type FulfilmentSource interface {
	ListUnassignedRentals(ctx context.Context, tenantID uuid.UUID, lineItemIDs []uuid.UUID) ([]models.Fulfilment, error)
}

// MatchInput carries the units created by a purchase-order submission.
type MatchInput struct {
	TenantID    uuid.UUID
	ActorUserID uuid.UUID
	LineItemIDs []uuid.UUID
	Inventory   []models.InventoryItem
}

// PairFailure is a planned pair whose assignment did not go through.
type PairFailure struct {
	Pair
	Code    pkgerrors.Code `json:"code"`
	Message string         `json:"message"`
}

// MatchSummary reports what a run did. Failed pairs leave both sides untouched.
type MatchSummary struct {
	Assigned              []Pair        `json:"assigned"`
	Failed                []PairFailure `json:"failed"`
	UnmatchedInventory    []uuid.UUID   `json:"unmatched_inventory_ids"`
	UnassignedFulfilments []uuid.UUID   `json:"unassigned_fulfilment_ids"`

	err error
}

// Err combines the per-pair failures, or returns nil when every pair was assigned.
func (s *MatchSummary) Err() error {
	return s.err
}

// Matcher pairs freshly ordered units with the rentals that requested them.
type Matcher struct {
	assigner Assigner
	source   FulfilmentSource
	metrics  *metrics.AssignmentMetrics
	logg     *logger.Logger
}

// NewMatcher builds a matcher. metrics and logg may be nil.
func NewMatcher(assigner Assigner, source FulfilmentSource, m *metrics.AssignmentMetrics, logg *logger.Logger) (*Matcher, error) {
	if assigner == nil {
		return nil, fmt.Errorf("assigner required")
	}
	if source == nil {
		return nil, fmt.Errorf("fulfilment source required")
	}
	return &Matcher{assigner: assigner, source: source, metrics: m, logg: logg}, nil
}

// Match plans and runs the assignments. Each pair commits on its own; a failing pair is
// recorded and the run moves on. The returned error only covers loading the candidates.
func (m *Matcher) Match(ctx context.Context, input MatchInput) (*MatchSummary, error) {
	ctx, span := tracing.Start(ctx, "autoassign.Match")
	span.SetAttributes(
		attribute.Int("inventory.count", len(input.Inventory)),
		attribute.Int("line_items.count", len(input.LineItemIDs)),
	)
	var err error
	defer func() { tracing.End(span, err) }()

	started := time.Now()
	waiting, err := m.source.ListUnassignedRentals(ctx, input.TenantID, input.LineItemIDs)
	if err != nil {
		err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load unassigned rentals")
		return nil, err
	}

	plan := BuildPlan(input.LineItemIDs, input.Inventory, waiting)
	summary := &MatchSummary{
		Assigned:              []Pair{},
		Failed:                []PairFailure{},
		UnmatchedInventory:    plan.UnmatchedInventory,
		UnassignedFulfilments: plan.UnassignedFulfilments,
	}
	for _, pair := range plan.Pairs {
		pairErr := ctx.Err()
		if pairErr == nil {
			_, pairErr = m.assigner.Assign(ctx, assignment.AssignInput{
				TenantID:     input.TenantID,
				ActorUserID:  input.ActorUserID,
				FulfilmentID: pair.FulfilmentID,
				InventoryID:  pair.InventoryID,
				// the candidate list was read outside the pair's transaction
				RequireUnassigned: true,
			})
		}
		if pairErr != nil {
			summary.Failed = append(summary.Failed, failure(pair, pairErr))
			summary.err = multierr.Append(summary.err, fmt.Errorf("fulfilment %s: %w", pair.FulfilmentID, pairErr))
			continue
		}
		summary.Assigned = append(summary.Assigned, pair)
	}

	m.metrics.ObserveMatch(len(summary.Assigned), len(summary.Failed), len(summary.UnmatchedInventory), len(summary.UnassignedFulfilments))
	if m.logg != nil {
		logCtx := m.logg.WithFields(ctx, map[string]any{
			"tenant_id":              input.TenantID.String(),
			"assigned":               len(summary.Assigned),
			"failed":                 len(summary.Failed),
			"unmatched_inventory":    len(summary.UnmatchedInventory),
			"unassigned_fulfilments": len(summary.UnassignedFulfilments),
			"duration_ms":            time.Since(started).Milliseconds(),
		})
		if summary.err != nil {
			m.logg.Warn(logCtx, "auto-assignment finished with failures")
		} else {
			m.logg.Info(logCtx, "auto-assignment finished")
		}
	}
	return summary, nil
}

func failure(pair Pair, err error) PairFailure {
	out := PairFailure{Pair: pair, Code: pkgerrors.CodeInternal, Message: err.Error()}
	if typed := pkgerrors.As(err); typed != nil {
		out.Code = typed.Code()
		out.Message = typed.Message()
	}
	return out
}
