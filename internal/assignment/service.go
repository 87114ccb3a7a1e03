package assignment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/gorm"

	"github.com/angelmondragon/rentalfleet-backend/internal/fulfilments"
	"github.com/angelmondragon/rentalfleet-backend/internal/inventory"
	"github.com/angelmondragon/rentalfleet-backend/internal/reservations"
	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
	"github.com/angelmondragon/rentalfleet-backend/pkg/logger"
	"github.com/angelmondragon/rentalfleet-backend/pkg/metrics"
	"github.com/angelmondragon/rentalfleet-backend/pkg/outbox"
	"github.com/angelmondragon/rentalfleet-backend/pkg/outbox/payloads"
	"github.com/angelmondragon/rentalfleet-backend/pkg/tracing"
)

const (
	opAssign      = "assign"
	opUnassign    = "unassign"
	opRentalDates = "rental_dates"
)

type serializableTxRunner interface {
	WithSerializableTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service binds inventory units to rental fulfilments and keeps the reservation ledger in
// step with every binding.
type Service interface {
	Assign(ctx context.Context, input AssignInput) (*Result, error)
	Unassign(ctx context.Context, input UnassignInput) (*Result, error)
	SetRentalDates(ctx context.Context, input RentalDatesInput) (*Result, error)
}

// ServiceParams wires the assignment service.
type ServiceParams struct {
	Tx           serializableTxRunner
	Fulfilments  fulfilments.Repository
	Inventory    inventory.Repository
	Reservations reservations.Repository
	Outbox       outboxPublisher
	Metrics      *metrics.AssignmentMetrics
	Logger       *logger.Logger
	MaxAttempts  int
	RetryBackoff time.Duration
}

type service struct {
	tx           serializableTxRunner
	fulfilments  fulfilments.Repository
	inventory    inventory.Repository
	reservations reservations.Repository
	outbox       outboxPublisher
	metrics      *metrics.AssignmentMetrics
	logg         *logger.Logger
	maxAttempts  int
	backoff      time.Duration
}

// NewService builds an assignment service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Fulfilments == nil {
		return nil, fmt.Errorf("fulfilment repository required")
	}
	if params.Inventory == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if params.Reservations == nil {
		return nil, fmt.Errorf("reservation repository required")
	}
	if params.Outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		tx:           params.Tx,
		fulfilments:  params.Fulfilments,
		inventory:    params.Inventory,
		reservations: params.Reservations,
		outbox:       params.Outbox,
		metrics:      params.Metrics,
		logg:         params.Logger,
		maxAttempts:  params.MaxAttempts,
		backoff:      params.RetryBackoff,
	}, nil
}

// repos is the set of repositories bound to one transaction.
type repos struct {
	fulfilments  fulfilments.Repository
	inventory    inventory.Repository
	reservations reservations.Repository
}

func (s *service) bind(tx *gorm.DB) repos {
	return repos{
		fulfilments:  s.fulfilments.WithTx(tx),
		inventory:    s.inventory.WithTx(tx),
		reservations: s.reservations.WithTx(tx),
	}
}

func (s *service) Assign(ctx context.Context, input AssignInput) (result *Result, err error) {
	if input.TenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant required")
	}
	if input.FulfilmentID == uuid.Nil || input.InventoryID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fulfilment id and inventory id required")
	}

	ctx, span := tracing.Start(ctx, "assignment.Assign")
	span.SetAttributes(
		attribute.String("fulfilment.id", input.FulfilmentID.String()),
		attribute.String("inventory.id", input.InventoryID.String()),
		attribute.Bool("allow_overlap", input.AllowOverlappingReservations),
	)
	started := time.Now()
	defer func() {
		s.finish(ctx, opAssign, started, result, err)
		tracing.End(span, err)
	}()

	err = s.runSerializable(ctx, opAssign, func(tx *gorm.DB) error {
		res, txErr := s.assignTx(ctx, tx, input)
		result = res
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) assignTx(ctx context.Context, tx *gorm.DB, input AssignInput) (*Result, error) {
	r := s.bind(tx)
	rental, err := loadRental(ctx, r.fulfilments, input.TenantID, input.FulfilmentID)
	if err != nil {
		return nil, err
	}
	if input.RequireUnassigned && rental.InventoryID != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "fulfilment already holds inventory")
	}
	item, err := r.inventory.FindByIDForUpdate(ctx, input.InventoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		return nil, err
	}
	if item.TenantID != rental.TenantID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}

	result := &Result{}
	window, hasWindow := rental.Window()
	if hasWindow {
		existing, err := r.reservations.ListActive(ctx, item.TenantID, item.ID)
		if err != nil {
			return nil, err
		}
		check, err := reservations.Check(item.ID, window, existing, rental.ID, input.AllowOverlappingReservations)
		if err != nil {
			return nil, err
		}
		result.Conflicts = check.Conflicts
		result.Overridden = check.Overridden
	}

	if _, err := r.reservations.DeleteByFulfilment(ctx, rental.TenantID, rental.ID); err != nil {
		return nil, err
	}

	previous := rental.InventoryID
	lineItemID := rental.PurchaseOrderLineItemID
	if item.PurchaseOrderLineItemID != nil {
		lineItemID = item.PurchaseOrderLineItemID
	}
	if err := r.fulfilments.SetAssignment(ctx, rental.ID, &item.ID, lineItemID); err != nil {
		return nil, err
	}
	unitID := item.ID
	rental.InventoryID = &unitID
	rental.PurchaseOrderLineItemID = lineItemID

	if hasWindow {
		reservation, err := s.reserve(ctx, r, rental, item.ID, window, result.Overridden)
		if err != nil {
			return nil, err
		}
		result.Reservation = reservation
	}
	result.Fulfilment = rental

	event := payloads.InventoryAssignedEvent{
		TenantID:                rental.TenantID,
		FulfilmentID:            rental.ID,
		InventoryID:             item.ID,
		PreviousInventoryID:     previous,
		PurchaseOrderLineItemID: lineItemID,
		Overridden:              result.Overridden,
	}
	if result.Reservation != nil {
		event.ReservationID = &result.Reservation.ID
	}
	if result.Overridden {
		event.ConflictingReservations = reservations.CheckResult{Conflicts: result.Conflicts}.ConflictIDs()
	}
	if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventInventoryAssigned,
		AggregateType: enums.AggregateFulfilment,
		AggregateID:   rental.ID,
		Actor:         actor(input.ActorUserID, input.TenantID),
		Data:          event,
	}); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) Unassign(ctx context.Context, input UnassignInput) (result *Result, err error) {
	if input.TenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant required")
	}
	if input.FulfilmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fulfilment id required")
	}

	ctx, span := tracing.Start(ctx, "assignment.Unassign")
	span.SetAttributes(attribute.String("fulfilment.id", input.FulfilmentID.String()))
	started := time.Now()
	defer func() {
		s.finish(ctx, opUnassign, started, result, err)
		tracing.End(span, err)
	}()

	err = s.runSerializable(ctx, opUnassign, func(tx *gorm.DB) error {
		r := s.bind(tx)
		rental, txErr := loadRental(ctx, r.fulfilments, input.TenantID, input.FulfilmentID)
		if txErr != nil {
			return txErr
		}
		if _, txErr := r.reservations.DeleteByFulfilment(ctx, rental.TenantID, rental.ID); txErr != nil {
			return txErr
		}
		result = &Result{Fulfilment: rental}
		if rental.InventoryID == nil {
			return nil
		}
		released := *rental.InventoryID
		if txErr := r.fulfilments.ClearInventory(ctx, rental.ID); txErr != nil {
			return txErr
		}
		rental.InventoryID = nil
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventInventoryUnassigned,
			AggregateType: enums.AggregateFulfilment,
			AggregateID:   rental.ID,
			Actor:         actor(input.ActorUserID, input.TenantID),
			Data: payloads.InventoryUnassignedEvent{
				TenantID:     rental.TenantID,
				FulfilmentID: rental.ID,
				InventoryID:  released,
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) SetRentalDates(ctx context.Context, input RentalDatesInput) (result *Result, err error) {
	if input.TenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant required")
	}
	if input.FulfilmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "fulfilment id required")
	}
	window, err := reservations.NewRange(input.Start, input.End)
	if err != nil {
		return nil, err
	}

	ctx, span := tracing.Start(ctx, "assignment.SetRentalDates")
	span.SetAttributes(attribute.String("fulfilment.id", input.FulfilmentID.String()))
	started := time.Now()
	defer func() {
		s.finish(ctx, opRentalDates, started, result, err)
		tracing.End(span, err)
	}()

	err = s.runSerializable(ctx, opRentalDates, func(tx *gorm.DB) error {
		res, txErr := s.rentalDatesTx(ctx, tx, input, window)
		result = res
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) rentalDatesTx(ctx context.Context, tx *gorm.DB, input RentalDatesInput, window reservations.Range) (*Result, error) {
	r := s.bind(tx)
	rental, err := loadRental(ctx, r.fulfilments, input.TenantID, input.FulfilmentID)
	if err != nil {
		return nil, err
	}

	result := &Result{}
	if rental.InventoryID != nil {
		item, err := r.inventory.FindByIDForUpdate(ctx, *rental.InventoryID)
		if err != nil {
			return nil, err
		}
		existing, err := r.reservations.ListActive(ctx, item.TenantID, item.ID)
		if err != nil {
			return nil, err
		}
		check, err := reservations.Check(item.ID, window, existing, rental.ID, input.AllowOverlappingReservations)
		if err != nil {
			return nil, err
		}
		result.Conflicts = check.Conflicts
		result.Overridden = check.Overridden
		if _, err := r.reservations.DeleteByFulfilment(ctx, rental.TenantID, rental.ID); err != nil {
			return nil, err
		}
	}

	if err := r.fulfilments.SetRentalDates(ctx, rental.ID, window.Start, window.End); err != nil {
		return nil, err
	}
	start, end := window.Start, window.End
	rental.RentalStartDate = &start
	rental.RentalEndDate = &end

	if rental.InventoryID != nil {
		reservation, err := s.reserve(ctx, r, rental, *rental.InventoryID, window, result.Overridden)
		if err != nil {
			return nil, err
		}
		result.Reservation = reservation
	}
	result.Fulfilment = rental

	event := payloads.RentalDatesUpdatedEvent{
		TenantID:     rental.TenantID,
		FulfilmentID: rental.ID,
		StartDate:    window.Start,
		EndDate:      window.End,
		InventoryID:  rental.InventoryID,
	}
	if result.Reservation != nil {
		event.ReservationID = &result.Reservation.ID
	}
	if err := s.outbox.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventRentalDatesUpdated,
		AggregateType: enums.AggregateFulfilment,
		AggregateID:   rental.ID,
		Actor:         actor(input.ActorUserID, input.TenantID),
		Data:          event,
	}); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) reserve(ctx context.Context, r repos, rental *fulfilments.Rental, inventoryID uuid.UUID, window reservations.Range, overridden bool) (*models.Reservation, error) {
	fulfilmentID := rental.ID
	kind := enums.DemandKindRental
	reservation := &models.Reservation{
		TenantID:     rental.TenantID,
		InventoryID:  inventoryID,
		StartDate:    window.Start,
		EndDate:      window.End,
		Type:         enums.ReservationTypeFulfilment,
		FulfilmentID: &fulfilmentID,
		DemandKind:   &kind,
		Overridden:   overridden,
	}
	if err := r.reservations.Create(ctx, reservation); err != nil {
		return nil, err
	}
	return reservation, nil
}

// loadRental locks the fulfilment row and narrows it to the rental variant.
func loadRental(ctx context.Context, repo fulfilments.Repository, tenantID, id uuid.UUID) (*fulfilments.Rental, error) {
	row, err := repo.FindByIDForUpdate(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "fulfilment not found")
		}
		return nil, err
	}
	f, err := fulfilments.FromModel(*row)
	if err != nil {
		return nil, err
	}
	rental, ok := f.(*fulfilments.Rental)
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("%s fulfilments cannot hold inventory", f.Kind()))
	}
	return rental, nil
}

func actor(userID, tenantID uuid.UUID) *outbox.ActorRef {
	if userID == uuid.Nil {
		return nil
	}
	return &outbox.ActorRef{UserID: userID, TenantID: tenantID}
}

func (s *service) finish(ctx context.Context, op string, started time.Time, result *Result, err error) {
	outcome := metrics.OutcomeSuccess
	switch {
	case err != nil && pkgerrors.HasCode(err, pkgerrors.CodeReservationConflict):
		outcome = metrics.OutcomeConflict
	case err != nil:
		outcome = metrics.OutcomeError
	case result != nil && result.Overridden:
		outcome = metrics.OutcomeOverridden
	}
	s.metrics.Observe(op, outcome, time.Since(started))

	if s.logg == nil {
		return
	}
	fields := map[string]any{"operation": op, "outcome": outcome}
	if result != nil && result.Fulfilment != nil {
		fields["fulfilment_id"] = result.Fulfilment.ID.String()
		if result.Fulfilment.InventoryID != nil {
			fields["inventory_id"] = result.Fulfilment.InventoryID.String()
		}
		if result.Overridden {
			fields["conflict_count"] = len(result.Conflicts)
		}
	}
	logCtx := s.logg.WithFields(ctx, fields)
	switch outcome {
	case metrics.OutcomeError:
		s.logg.Error(logCtx, "assignment operation failed", err)
	case metrics.OutcomeConflict, metrics.OutcomeOverridden:
		s.logg.Warn(logCtx, "assignment overlap")
	default:
		s.logg.Info(logCtx, "assignment operation completed")
	}
}
