package enums

import "slices"

// PurchaseOrderStatus tracks where a purchase order sits in the ordering workflow.
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "draft"
	PurchaseOrderStatusSubmitted PurchaseOrderStatus = "submitted"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "cancelled"
)

var validPurchaseOrderStatuses = []PurchaseOrderStatus{
	PurchaseOrderStatusDraft,
	PurchaseOrderStatusSubmitted,
	PurchaseOrderStatusCancelled,
}

// String implements fmt.Stringer.
func (p PurchaseOrderStatus) String() string {
	return string(p)
}

// IsValid reports whether p is a known PurchaseOrderStatus.
func (p PurchaseOrderStatus) IsValid() bool {
	return slices.Contains(validPurchaseOrderStatuses, p)
}

func ParsePurchaseOrderStatus(value string) (PurchaseOrderStatus, error) {
	return parse(value, validPurchaseOrderStatuses, "purchase order status")
}
