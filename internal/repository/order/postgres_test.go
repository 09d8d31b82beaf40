package order

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"vendormarket/internal/domain"
	"vendormarket/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	if err := migrate.Apply(context.Background(), pool); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return pool
}

type fixture struct {
	customerID string
	vendorA    string
	vendorB    string
	productA   string
	productB   string
}

func seedFixture(t *testing.T, pool *pgxpool.Pool) fixture {
	t.Helper()
	ctx := context.Background()
	suffix := time.Now().UnixNano()

	newUser := func(role string) string {
		var id string
		email := fmt.Sprintf("%s-%d-%s@order.test", role, suffix, randomSuffix(t))
		if err := pool.QueryRow(ctx, `
INSERT INTO users (email, password_hash, role) VALUES ($1, 'x', $2)
RETURNING id::text
`, email, role).Scan(&id); err != nil {
			t.Fatalf("seed %s: %v", role, err)
		}
		return id
	}
	newProduct := func(vendorID, name string, price int64) string {
		var id string
		if err := pool.QueryRow(ctx, `
INSERT INTO products (vendor_id, name, price_cents, stock) VALUES ($1, $2, $3, 100)
RETURNING id::text
`, vendorID, name, price).Scan(&id); err != nil {
			t.Fatalf("seed product %s: %v", name, err)
		}
		return id
	}

	f := fixture{
		customerID: newUser("customer"),
		vendorA:    newUser("vendor"),
		vendorB:    newUser("vendor"),
	}
	f.productA = newProduct(f.vendorA, "Tote", 1000)
	f.productB = newProduct(f.vendorB, "Candle", 2500)
	return f
}

var seedCounter int

func randomSuffix(t *testing.T) string {
	t.Helper()
	seedCounter++
	return fmt.Sprintf("%d", seedCounter)
}

func placeTestOrder(t *testing.T, repo Repository, f fixture) *domain.Order {
	t.Helper()
	ord, err := repo.Create(context.Background(), CreateOrderInput{
		CustomerID: f.customerID,
		Items: []domain.OrderItem{
			{ProductID: f.productA, VendorID: f.vendorA, ProductName: "Tote", UnitPriceCents: 1000, Quantity: 2},
			{ProductID: f.productB, VendorID: f.vendorB, ProductName: "Candle", UnitPriceCents: 2500, Quantity: 1},
		},
		Shipping:   domain.Address{Name: "Demo", Phone: "555-0100", Street: "1 Market St", City: "Springfield", Country: "US"},
		TotalCents: 4500,
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	return ord
}

func TestCreateAndGet(t *testing.T) {
	pool := testPool(t)
	repo := NewPostgres(pool)

	f := seedFixture(t, pool)
	ord := placeTestOrder(t, repo, f)

	if ord.Status != domain.StatusPending || ord.PaymentStatus != domain.PaymentPending {
		t.Fatalf("new order must be pending/pending, got %s/%s", ord.Status, ord.PaymentStatus)
	}
	if len(ord.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(ord.Items))
	}

	got, err := repo.GetByID(context.Background(), ord.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TotalCents != 4500 || got.CustomerID != f.customerID {
		t.Fatalf("unexpected order %+v", got)
	}

	if _, err := repo.GetByID(context.Background(), "00000000-0000-0000-0000-000000000000"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClaimCancelIsSingleWinner(t *testing.T) {
	pool := testPool(t)
	repo := NewPostgres(pool)
	ctx := context.Background()

	f := seedFixture(t, pool)
	ord := placeTestOrder(t, repo, f)

	claimed, err := repo.ClaimCancel(ctx, ord.ID)
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if claimed.Status != domain.StatusCancelled {
		t.Fatalf("expected cancelled, got %s", claimed.Status)
	}

	if _, err := repo.ClaimCancel(ctx, ord.ID); !errors.Is(err, domain.ErrAlreadyCancelled) {
		t.Fatalf("second claim must fail with already cancelled, got %v", err)
	}
}

func TestUpdateStatusCompareAndSwap(t *testing.T) {
	pool := testPool(t)
	repo := NewPostgres(pool)
	ctx := context.Background()

	f := seedFixture(t, pool)
	ord := placeTestOrder(t, repo, f)

	if err := repo.UpdateStatus(ctx, ord.ID, domain.StatusPending, domain.StatusConfirmed); err != nil {
		t.Fatalf("pending->confirmed: %v", err)
	}
	// The stored status is now confirmed, so the stale swap must fail.
	if err := repo.UpdateStatus(ctx, ord.ID, domain.StatusPending, domain.StatusProcessing); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("stale swap must fail, got %v", err)
	}
}

func TestVendorProjectionAndRevenue(t *testing.T) {
	pool := testPool(t)
	repo := NewPostgres(pool)
	ctx := context.Background()

	f := seedFixture(t, pool)
	ord := placeTestOrder(t, repo, f)

	views, err := repo.ListByVendor(ctx, f.vendorA)
	if err != nil {
		t.Fatalf("list by vendor: %v", err)
	}
	var view *domain.VendorOrder
	for i := range views {
		if views[i].OrderID == ord.ID {
			view = &views[i]
		}
	}
	if view == nil {
		t.Fatalf("vendor A must see order %s", ord.ID)
	}
	if len(view.Items) != 1 || view.Items[0].VendorID != f.vendorA {
		t.Fatalf("view must contain only vendor A's lines, got %+v", view.Items)
	}
	if view.VendorTotalCents != 2000 {
		t.Fatalf("expected vendor subtotal 2000, got %d", view.VendorTotalCents)
	}

	revA, err := repo.RevenueCents(ctx, f.vendorA)
	if err != nil {
		t.Fatalf("revenue: %v", err)
	}
	if revA != 2000 {
		t.Fatalf("expected revenue 2000, got %d", revA)
	}

	// Cancellation zeroes the order's contribution for every vendor.
	if _, err := repo.ClaimCancel(ctx, ord.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	revA, err = repo.RevenueCents(ctx, f.vendorA)
	if err != nil {
		t.Fatalf("revenue after cancel: %v", err)
	}
	if revA != 0 {
		t.Fatalf("cancelled order must not count toward revenue, got %d", revA)
	}
	revB, err := repo.RevenueCents(ctx, f.vendorB)
	if err != nil {
		t.Fatalf("vendor B revenue: %v", err)
	}
	if revB != 0 {
		t.Fatalf("cancelled order must not count for vendor B either, got %d", revB)
	}
}
