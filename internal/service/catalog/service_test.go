package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"vendormarket/internal/domain"
	productrepo "vendormarket/internal/repository/product"
)

type memProducts struct {
	seq      int
	products map[string]*domain.Product
}

func newMemProducts() *memProducts {
	return &memProducts{products: map[string]*domain.Product{}}
}

func (m *memProducts) Create(_ context.Context, in productrepo.CreateProductInput) (*domain.Product, error) {
	m.seq++
	p := &domain.Product{
		ID:          fmt.Sprintf("product-%d", m.seq),
		VendorID:    in.VendorID,
		Name:        in.Name,
		Description: in.Description,
		PriceCents:  in.PriceCents,
		Currency:    in.Currency,
		ImageURL:    in.ImageURL,
		Stock:       in.Stock,
	}
	m.products[p.ID] = p
	return p, nil
}

func (m *memProducts) GetByID(_ context.Context, id string) (*domain.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *memProducts) List(_ context.Context) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range m.products {
		out = append(out, *p)
	}
	return out, nil
}

func (m *memProducts) ListByVendor(_ context.Context, vendorID string) ([]domain.Product, error) {
	var out []domain.Product
	for _, p := range m.products {
		if p.VendorID == vendorID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProducts) Update(_ context.Context, p domain.Product) (*domain.Product, error) {
	existing, ok := m.products[p.ID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	// Stock is never written by catalog updates; keep the stored value.
	p.Stock = existing.Stock
	m.products[p.ID] = &p
	copied := p
	return &copied, nil
}

func strPtr(s string) *string { return &s }

func centsPtr(v int64) *int64 { return &v }

func TestCreateValidation(t *testing.T) {
	svc := New(newMemProducts())
	ctx := context.Background()

	cases := []struct {
		name string
		in   CreateInput
	}{
		{"missing name", CreateInput{PriceCents: 100}},
		{"negative price", CreateInput{Name: "Tote", PriceCents: -1}},
		{"negative stock", CreateInput{Name: "Tote", PriceCents: 100, Stock: -1}},
	}
	for _, tc := range cases {
		var vErr *domain.ValidationError
		if _, err := svc.Create(ctx, "vendor-a", tc.in); !errors.As(err, &vErr) {
			t.Fatalf("%s: expected validation error, got %v", tc.name, err)
		}
	}
}

func TestCreateDefaultsCurrency(t *testing.T) {
	svc := New(newMemProducts())

	p, err := svc.Create(context.Background(), "vendor-a", CreateInput{Name: " Tote ", PriceCents: 1000, Stock: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if p.Currency != "USD" {
		t.Fatalf("expected USD default, got %q", p.Currency)
	}
	if p.Name != "Tote" {
		t.Fatalf("name must be trimmed, got %q", p.Name)
	}
	if p.VendorID != "vendor-a" {
		t.Fatalf("unexpected vendor %q", p.VendorID)
	}
}

func TestUpdateEnforcesOwnership(t *testing.T) {
	repo := newMemProducts()
	svc := New(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, "vendor-a", CreateInput{Name: "Tote", PriceCents: 1000, Stock: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Update(ctx, "vendor-b", p.ID, UpdateInput{PriceCents: centsPtr(1)}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	updated, err := svc.Update(ctx, "vendor-a", p.ID, UpdateInput{PriceCents: centsPtr(1500)})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.PriceCents != 1500 || updated.Name != "Tote" {
		t.Fatalf("unexpected product %+v", updated)
	}

	if _, err := svc.Update(ctx, "vendor-a", "missing", UpdateInput{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateLeavesOmittedFieldsAlone(t *testing.T) {
	repo := newMemProducts()
	svc := New(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, "vendor-a", CreateInput{Name: "Tote", PriceCents: 1000, Stock: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	// Reservations moved the stored stock after creation.
	repo.products[p.ID].Stock = 3

	updated, err := svc.Update(ctx, "vendor-a", p.ID, UpdateInput{Name: strPtr("Canvas Tote")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Canvas Tote" {
		t.Fatalf("expected renamed product, got %q", updated.Name)
	}
	if updated.Stock != 3 {
		t.Fatalf("rename must not touch stock, got %d", updated.Stock)
	}
	if updated.PriceCents != 1000 {
		t.Fatalf("omitted price must keep its value, got %d", updated.PriceCents)
	}
}

func TestUpdateValidations(t *testing.T) {
	repo := newMemProducts()
	svc := New(repo)
	ctx := context.Background()

	p, err := svc.Create(ctx, "vendor-a", CreateInput{Name: "Tote", PriceCents: 1000, Stock: 5})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var vErr *domain.ValidationError
	if _, err := svc.Update(ctx, "vendor-a", p.ID, UpdateInput{Name: strPtr("  ")}); !errors.As(err, &vErr) {
		t.Fatalf("blank name must be rejected, got %v", err)
	}
	if _, err := svc.Update(ctx, "vendor-a", p.ID, UpdateInput{PriceCents: centsPtr(-1)}); !errors.As(err, &vErr) {
		t.Fatalf("negative price must be rejected, got %v", err)
	}
	if _, err := svc.Update(ctx, "vendor-a", p.ID, UpdateInput{Currency: strPtr(" ")}); !errors.As(err, &vErr) {
		t.Fatalf("blank currency must be rejected, got %v", err)
	}

	// Zero is a legitimate price, distinct from an omitted field.
	updated, err := svc.Update(ctx, "vendor-a", p.ID, UpdateInput{PriceCents: centsPtr(0)})
	if err != nil {
		t.Fatalf("set price to zero: %v", err)
	}
	if updated.PriceCents != 0 {
		t.Fatalf("expected price 0, got %d", updated.PriceCents)
	}
}
