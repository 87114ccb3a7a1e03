package enums

// ReservationType discriminates reservation sources. Only fulfilment reservations are
// written by this service; any other value is carried through untouched.
type ReservationType string

const (
	ReservationTypeFulfilment ReservationType = "fulfilment"
)

// String implements fmt.Stringer.
func (r ReservationType) String() string {
	return string(r)
}

// DemandKind records which demand line produced a fulfilment reservation.
type DemandKind string

const (
	DemandKindRental DemandKind = "rental"
	DemandKindSale   DemandKind = "sale"
)

// String implements fmt.Stringer.
func (d DemandKind) String() string {
	return string(d)
}
