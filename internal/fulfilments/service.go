package fulfilments

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
)

// Service exposes fulfilment reads.
type Service interface {
	Get(ctx context.Context, tenantID, id uuid.UUID) (Fulfilment, error)
}

type service struct {
	repo Repository
}

// NewService builds a fulfilment read service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, errors.New("fulfilment repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, tenantID, id uuid.UUID) (Fulfilment, error) {
	if tenantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "tenant required")
	}
	row, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "fulfilment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load fulfilment")
	}
	f, err := FromModel(*row)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode fulfilment")
	}
	return f, nil
}
