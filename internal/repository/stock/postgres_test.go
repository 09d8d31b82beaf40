package stock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"vendormarket/internal/domain"
	"vendormarket/internal/migrate"
	"github.com/jackc/pgx/v5/pgxpool"
)

// testPool connects to the database named by TEST_DB_DSN and applies
// migrations. Tests using it are skipped when the variable is unset.
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

func seedProduct(t *testing.T, pool *pgxpool.Pool, stock int) string {
	t.Helper()
	ctx := context.Background()
	var vendorID string
	email := fmt.Sprintf("vendor-%d@stock.test", time.Now().UnixNano())
	if err := pool.QueryRow(ctx, `
INSERT INTO users (email, password_hash, role) VALUES ($1, 'x', 'vendor')
RETURNING id::text
`, email).Scan(&vendorID); err != nil {
		t.Fatalf("seed vendor: %v", err)
	}
	var productID string
	if err := pool.QueryRow(ctx, `
INSERT INTO products (vendor_id, name, price_cents, stock) VALUES ($1, 'Widget', 1000, $2)
RETURNING id::text
`, vendorID, stock).Scan(&productID); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return productID
}

func TestReserveAndRelease(t *testing.T) {
	pool := testPool(t)
	repo := NewPostgres(pool)
	ctx := context.Background()

	productID := seedProduct(t, pool, 5)

	if err := repo.Reserve(ctx, productID, 2); err != nil {
		t.Fatalf("reserve: %v", err)
	}
	available, err := repo.Available(ctx, productID)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if available != 3 {
		t.Fatalf("expected 3 available, got %d", available)
	}

	var insufficient *domain.InsufficientStockError
	if err := repo.Reserve(ctx, productID, 4); !errors.As(err, &insufficient) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if insufficient.ProductID != productID {
		t.Fatalf("error must name the product, got %q", insufficient.ProductID)
	}

	if err := repo.Release(ctx, productID, 2); err != nil {
		t.Fatalf("release: %v", err)
	}
	available, err = repo.Available(ctx, productID)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if available != 5 {
		t.Fatalf("expected 5 available after release, got %d", available)
	}
}

func TestReserveUnknownProduct(t *testing.T) {
	pool := testPool(t)
	repo := NewPostgres(pool)
	ctx := context.Background()

	missing := "00000000-0000-0000-0000-000000000000"
	if err := repo.Reserve(ctx, missing, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if err := repo.Release(ctx, missing, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on release, got %v", err)
	}
}

func TestReserveRejectsNonPositiveQuantity(t *testing.T) {
	pool := testPool(t)
	repo := NewPostgres(pool)
	ctx := context.Background()

	productID := seedProduct(t, pool, 1)
	var vErr *domain.ValidationError
	if err := repo.Reserve(ctx, productID, 0); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := repo.Release(ctx, productID, -1); !errors.As(err, &vErr) {
		t.Fatalf("expected validation error on release, got %v", err)
	}
}

func TestConcurrentReserveNeverOversells(t *testing.T) {
	pool := testPool(t)
	repo := NewPostgres(pool)
	ctx := context.Background()

	const workers = 20
	productID := seedProduct(t, pool, 5)

	var wg sync.WaitGroup
	results := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- repo.Reserve(ctx, productID, 1)
		}()
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		var insufficient *domain.InsufficientStockError
		if !errors.As(err, &insufficient) {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 5 {
		t.Fatalf("expected exactly 5 successful reservations, got %d", successes)
	}
	available, err := repo.Available(ctx, productID)
	if err != nil {
		t.Fatalf("available: %v", err)
	}
	if available != 0 {
		t.Fatalf("expected 0 available, got %d", available)
	}
}
