package order

import (
	"context"

	"vendormarket/internal/domain"
)

type CreateOrderInput struct {
	CustomerID    string
	Items         []domain.OrderItem
	Shipping      domain.Address
	Notes         string
	PaymentMethod string
	TotalCents    int64
}

type Repository interface {
	// Create persists the order and its items as one transaction.
	Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)

	// UpdateStatus applies from -> to as a compare-and-set; returns
	// domain.ErrInvalidTransition when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error
	// ClaimCancel atomically moves a cancellable order to cancelled and
	// returns it with items. The claim is what makes the caller's stock
	// release exactly-once: a second claim reports ErrAlreadyCancelled.
	ClaimCancel(ctx context.Context, id string) (*domain.Order, error)
	// SetPaymentStatus applies from -> to as a compare-and-set on the
	// payment status, which moves independently of fulfillment status.
	SetPaymentStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error

	// ListByVendor returns, for each order containing at least one of the
	// vendor's products, the order restricted to that vendor's lines.
	ListByVendor(ctx context.Context, vendorID string) ([]domain.VendorOrder, error)
	// RevenueCents sums price x quantity over the vendor's lines in orders
	// whose status is not cancelled.
	RevenueCents(ctx context.Context, vendorID string) (int64, error)
}
