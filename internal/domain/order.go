package domain

import (
	"strings"
	"time"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusConfirmed  OrderStatus = "confirmed"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

// statusTransitions is the full table of allowed status changes. Delivered
// and cancelled are terminal.
var statusTransitions = map[OrderStatus][]OrderStatus{
	StatusPending:    {StatusConfirmed, StatusCancelled},
	StatusConfirmed:  {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipped, StatusCancelled},
	StatusShipped:    {StatusDelivered, StatusCancelled},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// ParseOrderStatus validates a status string from the outside world.
func ParseOrderStatus(raw string) (OrderStatus, bool) {
	s := OrderStatus(strings.ToLower(strings.TrimSpace(raw)))
	_, ok := statusTransitions[s]
	return s, ok
}

// ParsePaymentStatus validates a payment status string.
func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	s := PaymentStatus(strings.ToLower(strings.TrimSpace(raw)))
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed:
		return s, true
	}
	return "", false
}

// CanTransition reports whether from -> to is in the allowed table.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is permitted.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Cancellable reports whether an order in this status may still be cancelled.
func (s OrderStatus) Cancellable() bool {
	return !s.Terminal()
}

// Address is the shipping address frozen onto an order at placement.
// State and zip are optional, everything else is required.
type Address struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country"`
}

// Validate rejects a shipping address with missing required fields.
func (a Address) Validate() error {
	required := []struct {
		field string
		value string
	}{
		{"name", a.Name},
		{"phone", a.Phone},
		{"street", a.Street},
		{"city", a.City},
		{"country", a.Country},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return &ValidationError{Reason: "shipping address " + r.field + " required"}
		}
	}
	return nil
}

// Order is created once from a cart and thereafter immutable except for
// status, paymentStatus and notes. TotalCents is computed at creation and
// never recomputed.
type Order struct {
	ID            string        `json:"id"`
	CustomerID    string        `json:"customerId"`
	Items         []OrderItem   `json:"items"`
	Shipping      Address       `json:"shippingAddress"`
	Notes         string        `json:"notes,omitempty"`
	Status        OrderStatus   `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	PaymentMethod string        `json:"paymentMethod,omitempty"`
	TotalCents    int64         `json:"totalCents"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// OrderItem is a frozen copy of a cart line plus the vendor attribution
// resolved at placement time.
type OrderItem struct {
	ID             string                 `json:"id"`
	OrderID        string                 `json:"orderId"`
	ProductID      string                 `json:"productId"`
	VendorID       string                 `json:"vendorId"`
	ProductName    string                 `json:"productName"`
	UnitPriceCents int64                  `json:"unitPriceCents"`
	ImageURL       string                 `json:"imageUrl,omitempty"`
	Quantity       int                    `json:"quantity"`
	Customization  map[string]interface{} `json:"customization,omitempty"`
}

// VendorOrder is the vendor-scoped projection of a shared order: only the
// vendor's own lines and their subtotal, never another vendor's pricing.
type VendorOrder struct {
	OrderID          string        `json:"orderId"`
	Status           OrderStatus   `json:"status"`
	PaymentStatus    PaymentStatus `json:"paymentStatus"`
	Items            []OrderItem   `json:"items"`
	VendorTotalCents int64         `json:"vendorTotalCents"`
	CreatedAt        time.Time     `json:"createdAt"`
}
