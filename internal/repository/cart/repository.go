package cart

import (
	"context"

	"vendormarket/internal/domain"
)

type Repository interface {
	// GetOrCreate returns the user's cart, creating an empty one on first
	// access. There is at most one cart per user.
	GetOrCreate(ctx context.Context, userID string) (*domain.Cart, error)
	// AddLine merges into an existing line with equal (product,
	// customization) or appends a new one, atomically against the cart's
	// current line list.
	AddLine(ctx context.Context, cartID string, line domain.CartLine) error
	// RemoveLine deletes the first line matching productID; absent lines
	// are a no-op, not an error.
	RemoveLine(ctx context.Context, cartID, productID string) error
	// Clear empties the line list. Idempotent.
	Clear(ctx context.Context, cartID string) error
}
