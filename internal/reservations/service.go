package reservations

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/angelmondragon/rentalfleet-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
	"github.com/angelmondragon/rentalfleet-backend/pkg/pagination"
)

// Service exposes the read side of the ledger to the HTTP tier.
type Service interface {
	List(ctx context.Context, filter Filter) (*pagination.Page[models.Reservation], error)
}

type service struct {
	repo Repository
}

// NewService builds a reservation read service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("reservation repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, filter Filter) (*pagination.Page[models.Reservation], error) {
	if filter.TenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant required")
	}
	rows, err := s.repo.Query(ctx, filter)
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list reservations")
	}
	page := pagination.BuildPage(rows, filter.Params.Limit, func(r models.Reservation) pagination.Cursor {
		return pagination.Cursor{CreatedAt: r.CreatedAt, ID: r.ID}
	})
	return &page, nil
}
