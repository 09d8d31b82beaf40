package product

import (
	"context"

	"vendormarket/internal/domain"
)

type CreateProductInput struct {
	VendorID    string
	Name        string
	Description string
	PriceCents  int64
	Currency    string
	ImageURL    string
	Stock       int
}

type Repository interface {
	Create(ctx context.Context, in CreateProductInput) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByVendor(ctx context.Context, vendorID string) ([]domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
}
