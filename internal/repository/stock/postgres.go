package stock

import (
	"context"
	"errors"

	"vendormarket/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Repository backed by the products.stock column.
func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Reserve(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return &domain.ValidationError{Reason: "quantity must be positive"}
	}
	// The WHERE clause is the compare half of compare-and-decrement; the
	// row lock taken by UPDATE serializes concurrent reservations.
	cmd, err := r.pool.Exec(ctx, `
UPDATE products
SET stock = stock - $2
WHERE id = $1 AND stock >= $2
`, productID, quantity)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM products WHERE id = $1)`, productID).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return &domain.InsufficientStockError{ProductID: productID}
	}
	return nil
}

func (r *postgresRepo) Release(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return &domain.ValidationError{Reason: "quantity must be positive"}
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE products
SET stock = stock + $2
WHERE id = $1
`, productID, quantity)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) Available(ctx context.Context, productID string) (int, error) {
	var available int
	err := r.pool.QueryRow(ctx, `SELECT stock FROM products WHERE id = $1`, productID).Scan(&available)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrNotFound
		}
		return 0, err
	}
	return available, nil
}
