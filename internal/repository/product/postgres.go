package product

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

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const productColumns = `id::text, vendor_id::text, name, description, price_cents, currency, image_url, stock, created_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateProductInput) (*domain.Product, error) {
	const q = `
INSERT INTO products (vendor_id, name, description, price_cents, currency, image_url, stock)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + productColumns
	row := r.pool.QueryRow(ctx, q,
		in.VendorID, in.Name, in.Description, in.PriceCents, in.Currency, in.ImageURL, in.Stock)
	return scanProduct(row)
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	return scanProduct(row)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	return r.listQuery(ctx, `SELECT `+productColumns+` FROM products ORDER BY created_at DESC`)
}

func (r *postgresRepo) ListByVendor(ctx context.Context, vendorID string) ([]domain.Product, error) {
	return r.listQuery(ctx,
		`SELECT `+productColumns+` FROM products WHERE vendor_id = $1 ORDER BY created_at DESC`, vendorID)
}

// Update writes catalog fields only. Stock is deliberately not in the SET
// list: the ledger's conditional statements are the single writer of that
// column, and a full-row write here would clobber concurrent reservations.
func (r *postgresRepo) Update(ctx context.Context, p domain.Product) (*domain.Product, error) {
	const q = `
UPDATE products
SET name = $1, description = $2, price_cents = $3, currency = $4, image_url = $5
WHERE id = $6
RETURNING ` + productColumns
	row := r.pool.QueryRow(ctx, q,
		p.Name, p.Description, p.PriceCents, p.Currency, p.ImageURL, p.ID)
	return scanProduct(row)
}

func (r *postgresRepo) listQuery(ctx context.Context, q string, args ...interface{}) ([]domain.Product, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(
			&p.ID, &p.VendorID, &p.Name, &p.Description,
			&p.PriceCents, &p.Currency, &p.ImageURL, &p.Stock, &p.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.VendorID, &p.Name, &p.Description,
		&p.PriceCents, &p.Currency, &p.ImageURL, &p.Stock, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
