package catalog

import (
	"context"
	"strings"

	"vendormarket/internal/domain"
	productrepo "vendormarket/internal/repository/product"
)

// Service is the thin catalog layer: public reads plus vendor-owned CRUD.
type Service struct {
	repo productRepo
}

type productRepo interface {
	Create(ctx context.Context, in productrepo.CreateProductInput) (*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
	ListByVendor(ctx context.Context, vendorID string) ([]domain.Product, error)
	Update(ctx context.Context, p domain.Product) (*domain.Product, error)
}

func New(repo productRepo) *Service {
	return &Service{repo: repo}
}

type CreateInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"priceCents"`
	Currency    string `json:"currency"`
	ImageURL    string `json:"imageUrl"`
	Stock       int    `json:"stock"`
}

func (s *Service) Create(ctx context.Context, vendorID string, in CreateInput) (*domain.Product, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, &domain.ValidationError{Reason: "name required"}
	}
	if in.PriceCents < 0 {
		return nil, &domain.ValidationError{Reason: "priceCents must not be negative"}
	}
	if in.Stock < 0 {
		return nil, &domain.ValidationError{Reason: "stock must not be negative"}
	}
	currency := strings.ToUpper(strings.TrimSpace(in.Currency))
	if currency == "" {
		currency = "USD"
	}
	return s.repo.Create(ctx, productrepo.CreateProductInput{
		VendorID:    vendorID,
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		PriceCents:  in.PriceCents,
		Currency:    currency,
		ImageURL:    in.ImageURL,
		Stock:       in.Stock,
	})
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByVendor(ctx context.Context, vendorID string) ([]domain.Product, error) {
	return s.repo.ListByVendor(ctx, vendorID)
}

// UpdateInput carries a partial update. Pointer fields distinguish an
// omitted field from an explicit zero value. Stock is absent on purpose:
// it moves only through reservations and releases.
type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	PriceCents  *int64  `json:"priceCents"`
	Currency    *string `json:"currency"`
	ImageURL    *string `json:"imageUrl"`
}

// Update lets a vendor change their own product; ownership is enforced
// here, not in the handler. Omitted fields keep their stored value.
func (s *Service) Update(ctx context.Context, vendorID, productID string, in UpdateInput) (*domain.Product, error) {
	existing, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if existing.VendorID != vendorID {
		return nil, domain.ErrForbidden
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return nil, &domain.ValidationError{Reason: "name must not be empty"}
		}
		existing.Name = name
	}
	if in.Description != nil {
		existing.Description = *in.Description
	}
	if in.PriceCents != nil {
		if *in.PriceCents < 0 {
			return nil, &domain.ValidationError{Reason: "priceCents must not be negative"}
		}
		existing.PriceCents = *in.PriceCents
	}
	if in.Currency != nil {
		currency := strings.ToUpper(strings.TrimSpace(*in.Currency))
		if currency == "" {
			return nil, &domain.ValidationError{Reason: "currency must not be empty"}
		}
		existing.Currency = currency
	}
	if in.ImageURL != nil {
		existing.ImageURL = *in.ImageURL
	}
	return s.repo.Update(ctx, *existing)
}
