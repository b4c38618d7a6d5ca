package domain

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every status in display order.
var OrderStatuses = []OrderStatus{StatusPending, StatusCompleted, StatusCancelled}

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// HoldsReservation reports whether an order in this status still keeps its
// quantity out of the product's stock. Only cancelled orders do not.
func (s OrderStatus) HoldsReservation() bool {
	return s != StatusCancelled
}

// Order is a single-product sale. CustomerName, ProductName and TotalPrice are
// captured at placement and never recomputed.
type Order struct {
	ID           string
	CustomerID   string
	CustomerName string
	ProductID    string
	ProductName  string
	Quantity     int
	TotalPrice   float64
	OrderDate    time.Time
	Status       OrderStatus
}

// PlaceOrder is the command accepted by the ledger.
type PlaceOrder struct {
	CustomerID string
	ProductID  string
	Quantity   int
	OrderDate  time.Time
	Status     OrderStatus
}

// DateLayout is the calendar-date format used for order dates on the wire.
const DateLayout = "2006-01-02"

// CivilDate truncates t to midnight UTC of its own calendar day.
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
