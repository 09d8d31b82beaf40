package cart

import (
	"context"
	"fmt"

	"vendormarket/internal/domain"
)

// Service owns the per-user cart lifecycle. It never touches stock; that
// happens only at order placement.
type Service struct {
	repo     cartRepo
	products productRepo
}

type cartRepo interface {
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID string, line domain.CartLine) error
	RemoveLine(ctx context.Context, cartID, productID string) error
	Clear(ctx context.Context, cartID string) error
}

type productRepo interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
}

func New(repo cartRepo, products productRepo) *Service {
	return &Service{repo: repo, products: products}
}

// Get returns the user's cart, creating an empty one on first access.
func (s *Service) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	return s.repo.GetOrCreate(ctx, userID)
}

// AddItem snapshots the product into a cart line. Name, price and image are
// copied by value so the cart stays stable against later catalog changes.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int, customization map[string]interface{}) (*domain.Cart, error) {
	if productID == "" {
		return nil, &domain.ValidationError{Reason: "productId required"}
	}
	if quantity <= 0 {
		return nil, &domain.ValidationError{Reason: "quantity must be a positive integer"}
	}

	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("load product: %w", err)
	}

	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	line := domain.CartLine{
		ProductID:      product.ID,
		ProductName:    product.Name,
		UnitPriceCents: product.PriceCents,
		ImageURL:       product.ImageURL,
		Quantity:       quantity,
		Customization:  customization,
	}
	if err := s.repo.AddLine(ctx, cart.ID, line); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, userID)
}

// RemoveItem drops the first line matching productID; removing an absent
// product is a no-op.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	if productID == "" {
		return nil, &domain.ValidationError{Reason: "productId required"}
	}
	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveLine(ctx, cart.ID, productID); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, userID)
}

// Clear empties the cart. Idempotent.
func (s *Service) Clear(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.repo.GetOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Clear(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.repo.GetOrCreate(ctx, userID)
}
