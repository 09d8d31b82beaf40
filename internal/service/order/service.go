package order

import (
	"context"
	"errors"
	"fmt"
	"time"

	"vendormarket/internal/domain"
	"vendormarket/internal/metrics"
	orderrepo "vendormarket/internal/repository/order"
	"go.uber.org/zap"
)

// Service converts carts into immutable orders and governs all later
// status mutation. Placement is the one multi-step operation in the
// system: reservations are compensated on partial failure because no
// cross-entity transaction is assumed.
type Service struct {
	carts    cartRepo
	products productRepo
	stock    stockRepo
	orders   ordersRepo
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger

	clearRetries int
	clearBackoff time.Duration
}

type cartRepo interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	Clear(ctx context.Context, cartID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

type stockRepo interface {
	Reserve(ctx context.Context, productID string, quantity int) error
	Release(ctx context.Context, productID string, quantity int) error
}

type ordersRepo interface {
	Create(ctx context.Context, in orderrepo.CreateOrderInput) (*domain.Order, error)
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error
	ClaimCancel(ctx context.Context, id string) (*domain.Order, error)
	SetPaymentStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error
}

// Notifier publishes order lifecycle events out-of-band; delivery is
// never awaited by the request.
type Notifier interface {
	OrderPlaced(o *domain.Order)
	OrderCancelled(o *domain.Order)
	OrderStatusChanged(o *domain.Order)
}

func New(carts cartRepo, products productRepo, stock stockRepo, orders ordersRepo, notifier Notifier, m *metrics.Metrics, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		carts:        carts,
		products:     products,
		stock:        stock,
		orders:       orders,
		notifier:     notifier,
		metrics:      m,
		logger:       logger,
		clearRetries: 3,
		clearBackoff: 100 * time.Millisecond,
	}
}

type PlaceInput struct {
	Shipping      domain.Address
	Notes         string
	PaymentMethod string
}

// Place freezes the user's cart into an order: reserve stock per line
// (rolling back every reservation already made if any line fails),
// persist the order snapshot, then clear the cart. The order becomes
// visible only after it is durable; a cart-clear failure is retried and,
// at worst, leaves a cart the user can clear manually.
func (s *Service) Place(ctx context.Context, userID string, in PlaceInput) (*domain.Order, error) {
	if err := in.Shipping.Validate(); err != nil {
		return nil, err
	}

	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(cart.Lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	// Resolve vendor attribution before any side effect. Name, price and
	// customization come from the cart snapshot, not the live catalog.
	items := make([]domain.OrderItem, 0, len(cart.Lines))
	var total int64
	for _, line := range cart.Lines {
		product, err := s.products.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, &domain.ValidationError{Reason: "product " + line.ProductID + " is no longer available"}
			}
			return nil, fmt.Errorf("load product %s: %w", line.ProductID, err)
		}
		items = append(items, domain.OrderItem{
			ProductID:      line.ProductID,
			VendorID:       product.VendorID,
			ProductName:    line.ProductName,
			UnitPriceCents: line.UnitPriceCents,
			ImageURL:       line.ImageURL,
			Quantity:       line.Quantity,
			Customization:  line.Customization,
		})
		total += line.UnitPriceCents * int64(line.Quantity)
	}

	reserved := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		if err := s.stock.Reserve(ctx, item.ProductID, item.Quantity); err != nil {
			if rbErr := s.rollbackReservations(ctx, reserved); rbErr != nil {
				return nil, rbErr
			}
			var insufficient *domain.InsufficientStockError
			if errors.As(err, &insufficient) {
				if s.metrics != nil {
					s.metrics.StockRejections.Inc()
				}
				return nil, err
			}
			return nil, fmt.Errorf("reserve stock for %s: %w", item.ProductID, err)
		}
		reserved = append(reserved, item)
	}

	ord, err := s.orders.Create(ctx, orderrepo.CreateOrderInput{
		CustomerID:    userID,
		Items:         items,
		Shipping:      in.Shipping,
		Notes:         in.Notes,
		PaymentMethod: in.PaymentMethod,
		TotalCents:    total,
	})
	if err != nil {
		if rbErr := s.rollbackReservations(ctx, reserved); rbErr != nil {
			return nil, rbErr
		}
		return nil, fmt.Errorf("persist order: %w", err)
	}

	s.clearCartWithRetry(ctx, cart.ID, ord.ID)

	if s.metrics != nil {
		s.metrics.OrdersPlaced.Inc()
	}
	if s.notifier != nil {
		s.notifier.OrderPlaced(ord)
	}
	return ord, nil
}

// rollbackReservations releases every reservation made so far. Each item
// is attempted even after a failure so as little stock as possible stays
// decremented; the first failure is surfaced as ReservationRollbackError
// because it means stock is understated and needs operator attention.
func (s *Service) rollbackReservations(ctx context.Context, reserved []domain.OrderItem) error {
	var failed *domain.ReservationRollbackError
	for _, item := range reserved {
		if err := s.stock.Release(ctx, item.ProductID, item.Quantity); err != nil {
			s.logger.Error("compensating stock release failed",
				zap.String("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
			if failed == nil {
				failed = &domain.ReservationRollbackError{ProductID: item.ProductID, Err: err}
			}
		}
	}
	if failed != nil {
		return failed
	}
	return nil
}

func (s *Service) clearCartWithRetry(ctx context.Context, cartID, orderID string) {
	var err error
	for attempt := 0; attempt < s.clearRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(s.clearBackoff)
		}
		if err = s.carts.Clear(ctx, cartID); err == nil {
			return
		}
	}
	// The order is already durable and correct; only the cart is stale,
	// and the user can clear it manually.
	s.logger.Error("cart clear failed after order placement",
		zap.String("cart_id", cartID),
		zap.String("order_id", orderID),
		zap.Error(err))
}

// Get returns a single order; customers only see their own.
func (s *Service) Get(ctx context.Context, orderID, requesterID, role string) (*domain.Order, error) {
	ord, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin && ord.CustomerID != requesterID {
		return nil, domain.ErrForbidden
	}
	return ord, nil
}

// ListMine returns the customer's own orders, newest first.
func (s *Service) ListMine(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByCustomer(ctx, userID)
}

// Cancel moves an order to cancelled and restores exactly the stock its
// placement reserved. The repository's conditional claim guarantees the
// release runs once: a second cancel is rejected with AlreadyCancelled
// before any stock moves.
func (s *Service) Cancel(ctx context.Context, orderID, requesterID, role string) (*domain.Order, error) {
	ord, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if role != domain.RoleAdmin && ord.CustomerID != requesterID {
		return nil, domain.ErrForbidden
	}
	return s.cancelAndRelease(ctx, orderID)
}

func (s *Service) cancelAndRelease(ctx context.Context, orderID string) (*domain.Order, error) {
	claimed, err := s.orders.ClaimCancel(ctx, orderID)
	if err != nil {
		return nil, err
	}
	for _, item := range claimed.Items {
		if err := s.stock.Release(ctx, item.ProductID, item.Quantity); err != nil {
			// Stock is now understated for this product; the cancellation
			// itself stands.
			s.logger.Error("stock release failed during cancellation",
				zap.String("order_id", orderID),
				zap.String("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity),
				zap.Error(err))
		}
	}
	if s.metrics != nil {
		s.metrics.OrdersCancelled.Inc()
	}
	if s.notifier != nil {
		s.notifier.OrderCancelled(claimed)
	}
	return claimed, nil
}

// UpdateStatus applies a fulfillment transition from the allowed table.
// A transition to cancelled goes through the cancel path so stock is
// restored exactly as a direct cancel would.
func (s *Service) UpdateStatus(ctx context.Context, orderID string, next domain.OrderStatus) (*domain.Order, error) {
	if next == domain.StatusCancelled {
		return s.cancelAndRelease(ctx, orderID)
	}

	ord, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(ord.Status, next) {
		return nil, domain.ErrInvalidTransition
	}
	if err := s.orders.UpdateStatus(ctx, orderID, ord.Status, next); err != nil {
		return nil, err
	}
	ord.Status = next

	if s.metrics != nil {
		s.metrics.StatusTransitions.WithLabelValues(string(next)).Inc()
	}
	if s.notifier != nil {
		s.notifier.OrderStatusChanged(ord)
	}
	return ord, nil
}

// SetPaymentStatus records the payment collaborator's outcome. Payment
// status moves pending -> paid | failed and does not drive fulfillment
// status; in particular a paid order remains cancellable.
func (s *Service) SetPaymentStatus(ctx context.Context, orderID string, next domain.PaymentStatus) (*domain.Order, error) {
	if next != domain.PaymentPaid && next != domain.PaymentFailed {
		return nil, &domain.ValidationError{Reason: "payment status must be paid or failed"}
	}
	if err := s.orders.SetPaymentStatus(ctx, orderID, domain.PaymentPending, next); err != nil {
		return nil, err
	}
	return s.orders.GetByID(ctx, orderID)
}
