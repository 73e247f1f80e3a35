package models

// OrderStatus is the closed set of lifecycle states an order can be in.
// Transitions between them are unrestricted.
type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPreparing OrderStatus = "Preparing"
	StatusReady     OrderStatus = "Ready"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
)

func OrderStatuses() []OrderStatus {
	return []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled}
}

// ParseOrderStatus accepts only the exact names of the five statuses.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	for _, st := range OrderStatuses() {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

func (s OrderStatus) Valid() bool {
	_, ok := ParseOrderStatus(string(s))
	return ok
}

// IsTerminal reports whether no further business action is expected.
// Nothing enforces it.
func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}
