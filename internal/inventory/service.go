package inventory

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
	"github.com/angelmondragon/rentalfleet-backend/pkg/outbox"
	"github.com/angelmondragon/rentalfleet-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service covers operator-facing inventory operations. Assignment never changes status.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.InventoryItem, error)
	Get(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryItem, error)
	UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.InventoryItem, error)
}

// CreateInput describes a unit added outside purchase-order submission.
type CreateInput struct {
	TenantID           uuid.UUID
	Status             enums.InventoryStatus
	ProductID          *uuid.UUID
	IsThirdPartyRental bool
	ExpectedReturnDate *time.Time
	PurchaseCost       decimal.Decimal
}

// UpdateStatusInput moves a unit along its lifecycle.
type UpdateStatusInput struct {
	TenantID    uuid.UUID
	ActorUserID uuid.UUID
	InventoryID uuid.UUID
	Status      enums.InventoryStatus
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
}

// NewService builds the inventory service.
func NewService(repo Repository, tx txRunner, outbox outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outbox == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: outbox}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.InventoryItem, error) {
	if input.TenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant required")
	}
	status := input.Status
	if status == "" {
		status = enums.InventoryStatusAvailable
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid inventory status")
	}
	if input.PurchaseCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "purchase cost must not be negative")
	}
	item := &models.InventoryItem{
		TenantID:           input.TenantID,
		Status:             status,
		ProductID:          input.ProductID,
		IsThirdPartyRental: input.IsThirdPartyRental,
		ExpectedReturnDate: input.ExpectedReturnDate,
		PurchaseCost:       input.PurchaseCost,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory item")
	}
	return item, nil
}

func (s *service) Get(ctx context.Context, tenantID, id uuid.UUID) (*models.InventoryItem, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant required")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err)
	}
	if item.TenantID != tenantID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	return item, nil
}

func (s *service) UpdateStatus(ctx context.Context, input UpdateStatusInput) (*models.InventoryItem, error) {
	if input.TenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant required")
	}
	if !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid inventory status")
	}

	var updated *models.InventoryItem
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		item, err := repo.FindByIDForUpdate(ctx, input.InventoryID)
		if err != nil {
			return mapLookupError(err)
		}
		if item.TenantID != input.TenantID {
			return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
		}
		if item.Status == input.Status {
			updated = item
			return nil
		}
		if !item.Status.CanTransitionTo(input.Status) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("cannot move inventory from %s to %s", item.Status, input.Status))
		}
		if err := repo.UpdateStatus(ctx, item.ID, input.Status); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update inventory status")
		}
		from := item.Status
		item.Status = input.Status
		updated = item
		return s.outbox.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventInventoryStatusChanged,
			AggregateType: enums.AggregateInventoryItem,
			AggregateID:   item.ID,
			Actor:         &outbox.ActorRef{UserID: input.ActorUserID, TenantID: input.TenantID},
			Data: payloads.InventoryStatusChangedEvent{
				TenantID:    input.TenantID,
				InventoryID: item.ID,
				From:        from.String(),
				To:          input.Status.String(),
			},
		})
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func mapLookupError(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load inventory item")
}
