package purchaseorders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/angelmondragon/rentalfleet-backend/internal/autoassign"
	"github.com/angelmondragon/rentalfleet-backend/internal/inventory"
	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
	"github.com/angelmondragon/rentalfleet-backend/pkg/logger"
	"github.com/angelmondragon/rentalfleet-backend/pkg/outbox"
	"github.com/angelmondragon/rentalfleet-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/rentalfleet-backend/pkg/tracing"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type matcher interface {
	Match(ctx context.Context, input autoassign.MatchInput) (*autoassign.MatchSummary, error)
}

// Service submits purchase orders.
type Service interface {
	Submit(ctx context.Context, input SubmitInput) (*SubmitResult, error)
}

// SubmitInput identifies the order to submit.
type SubmitInput struct {
	TenantID        uuid.UUID
	ActorUserID     uuid.UUID
	PurchaseOrderID uuid.UUID
}

// SubmitResult is the submitted order, the units it created and the auto-assignment run.
// Match is nil when the run could not start; the submission itself is already committed.
type SubmitResult struct {
	PurchaseOrder *models.PurchaseOrder
	Inventory     []models.InventoryItem
	Match         *autoassign.MatchSummary
}

type service struct {
	repo      Repository
	inventory inventory.Repository
	tx        txRunner
	outbox    outboxPublisher
	matcher   matcher
	logg      *logger.Logger
}

// NewService builds the submission service.
func NewService(repo Repository, inventoryRepo inventory.Repository, tx txRunner, outbox outboxPublisher, m matcher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("purchase order repository required")
	}
	if inventoryRepo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if m == nil {
		return nil, fmt.Errorf("matcher required")
	}
	return &service{repo: repo, inventory: inventoryRepo, tx: tx, outbox: outbox, matcher: m, logg: logg}, nil
}

func (s *service) Submit(ctx context.Context, input SubmitInput) (result *SubmitResult, err error) {
	if input.TenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant required")
	}
	if input.PurchaseOrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase order id required")
	}

	ctx, span := tracing.Start(ctx, "purchaseorders.Submit")
	span.SetAttributes(attribute.String("purchase_order.id", input.PurchaseOrderID.String()))
	defer func() { tracing.End(span, err) }()

	var (
		order *models.PurchaseOrder
		units []models.InventoryItem
	)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		var txErr error
		order, units, txErr = s.submitTx(ctx, tx, input)
		return txErr
	})
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit purchase order")
		}
		return nil, err
	}

	result = &SubmitResult{PurchaseOrder: order, Inventory: units}
	lineItemIDs := make([]uuid.UUID, 0, len(order.LineItems))
	for _, line := range order.LineItems {
		lineItemIDs = append(lineItemIDs, line.ID)
	}
	summary, matchErr := s.matcher.Match(ctx, autoassign.MatchInput{
		TenantID:    input.TenantID,
		ActorUserID: input.ActorUserID,
		LineItemIDs: lineItemIDs,
		Inventory:   units,
	})
	if matchErr != nil {
		if s.logg != nil {
			s.logg.Error(s.logg.WithField(ctx, "purchase_order_id", order.ID.String()), "auto-assignment did not run", matchErr)
		}
		return result, nil
	}
	result.Match = summary
	return result, nil
}

func (s *service) submitTx(ctx context.Context, tx *gorm.DB, input SubmitInput) (*models.PurchaseOrder, []models.InventoryItem, error) {
	repo := s.repo.WithTx(tx)
	order, err := repo.FindByID(ctx, input.TenantID, input.PurchaseOrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, pkgerrors.New(pkgerrors.CodeNotFound, "purchase order not found")
		}
		return nil, nil, err
	}
	if order.Status != enums.PurchaseOrderStatusDraft {
		return nil, nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("purchase order is %s", order.Status))
	}

	now := time.Now().UTC()
	ok, err := repo.MarkSubmitted(ctx, order.ID, now)
	if err != nil {
		return nil, nil, err
	}
	if !ok {
		return nil, nil, pkgerrors.New(pkgerrors.CodeStateConflict, "purchase order was submitted concurrently")
	}
	order.Status = enums.PurchaseOrderStatusSubmitted
	order.SubmittedAt = &now

	units := unitsFor(order)
	if err := s.inventory.WithTx(tx).CreateBatch(ctx, units); err != nil {
		return nil, nil, err
	}

	event := payloads.PurchaseOrderSubmittedEvent{
		TenantID:        order.TenantID,
		PurchaseOrderID: order.ID,
		LineItemIDs:     make([]uuid.UUID, 0, len(order.LineItems)),
		InventoryIDs:    make([]uuid.UUID, 0, len(units)),
		SubmittedAt:     now,
	}
	for _, line := range order.LineItems {
		event.LineItemIDs = append(event.LineItemIDs, line.ID)
	}
	for _, unit := range units {
		event.InventoryIDs = append(event.InventoryIDs, unit.ID)
	}
	var actorRef *outbox.ActorRef
	if input.ActorUserID != uuid.Nil {
		actorRef = &outbox.ActorRef{UserID: input.ActorUserID, TenantID: input.TenantID}
	}
	if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventPurchaseOrderSubmitted,
		AggregateType: enums.AggregatePurchaseOrder,
		AggregateID:   order.ID,
		Actor:         actorRef,
		Data:          event,
	}); err != nil {
		return nil, nil, err
	}
	return order, units, nil
}

// unitsFor expands every line item into quantity on-order units.
func unitsFor(order *models.PurchaseOrder) []models.InventoryItem {
	var units []models.InventoryItem
	for _, line := range order.LineItems {
		for i := 0; i < line.Quantity; i++ {
			orderID := order.ID
			lineID := line.ID
			units = append(units, models.InventoryItem{
				TenantID:                order.TenantID,
				Status:                  enums.InventoryStatusOnOrder,
				PurchaseOrderID:         &orderID,
				PurchaseOrderLineItemID: &lineID,
				ProductID:               line.ProductID,
				PurchaseCost:            line.UnitCost,
			})
		}
	}
	return units
}
