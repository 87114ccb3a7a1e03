package enums

import "slices"

// FulfilmentType discriminates the fulfilment variants.
type FulfilmentType string

const (
	FulfilmentTypeRental  FulfilmentType = "rental"
	FulfilmentTypeSale    FulfilmentType = "sale"
	FulfilmentTypeService FulfilmentType = "service"
)

var validFulfilmentTypes = []FulfilmentType{
	FulfilmentTypeRental,
	FulfilmentTypeSale,
	FulfilmentTypeService,
}

// String implements fmt.Stringer.
func (f FulfilmentType) String() string {
	return string(f)
}

// IsValid reports whether f is a known FulfilmentType.
func (f FulfilmentType) IsValid() bool {
	return slices.Contains(validFulfilmentTypes, f)
}

func ParseFulfilmentType(value string) (FulfilmentType, error) {
	return parse(value, validFulfilmentTypes, "fulfilment type")
}
