package inventory

import (
	"strings"

	"github.com/google/uuid"

	internalinventory "github.com/angelmondragon/rentalfleet-backend/internal/inventory"
	"github.com/angelmondragon/rentalfleet-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/rentalfleet-backend/pkg/errors"
)

func (p createRequest) toInput() (internalinventory.CreateInput, error) {
	var input internalinventory.CreateInput
	if status := strings.TrimSpace(p.Status); status != "" {
		parsed, err := enums.ParseInventoryStatus(status)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status")
		}
		input.Status = parsed
	}
	if p.ProductID != nil {
		id, err := uuid.Parse(*p.ProductID)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
		}
		input.ProductID = &id
	}
	if p.ExpectedReturnDate != nil {
		at := p.ExpectedReturnDate.UTC()
		input.ExpectedReturnDate = &at
	}
	if p.PurchaseCost != nil {
		input.PurchaseCost = *p.PurchaseCost
	}
	input.IsThirdPartyRental = p.IsThirdPartyRental
	return input, nil
}
