package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/crypto/bcrypt"
)

type userSeed struct {
	Email string
	Name  string
	Role  string
}

type productSeed struct {
	VendorEmail string
	Name        string
	Description string
	PriceCents  int64
	Currency    string
	Stock       int
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	users := []userSeed{
		{Email: "admin@vendormarket.dev", Name: "Admin", Role: "admin"},
		{Email: "vendor-north@vendormarket.dev", Name: "North Goods", Role: "vendor"},
		{Email: "vendor-south@vendormarket.dev", Name: "South Supply", Role: "vendor"},
		{Email: "shopper@vendormarket.dev", Name: "Demo Shopper", Role: "customer"},
	}
	for _, u := range users {
		if err := upsertUser(ctx, pool, u); err != nil {
			return fmt.Errorf("upsert user %s: %w", u.Email, err)
		}
	}

	products := []productSeed{
		{
			VendorEmail: "vendor-north@vendormarket.dev",
			Name:        "Canvas Tote",
			Description: "Heavy cotton tote bag",
			PriceCents:  1999,
			Currency:    "USD",
			Stock:       25,
		},
		{
			VendorEmail: "vendor-north@vendormarket.dev",
			Name:        "Enamel Mug",
			Description: "Camp-style enamel mug",
			PriceCents:  1299,
			Currency:    "USD",
			Stock:       40,
		},
		{
			VendorEmail: "vendor-south@vendormarket.dev",
			Name:        "Beeswax Candle",
			Description: "Hand poured beeswax candle",
			PriceCents:  2500,
			Currency:    "USD",
			Stock:       10,
		},
	}
	for _, p := range products {
		if err := upsertProduct(ctx, pool, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.Name, err)
		}
	}

	return nil
}

func upsertUser(ctx context.Context, pool *pgxpool.Pool, u userSeed) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO users (email, password_hash, name, role)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, role = EXCLUDED.role
`
	_, err = pool.Exec(ctx, q, u.Email, string(hashed), u.Name, u.Role)
	return err
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) error {
	var vendorID string
	if err := pool.QueryRow(ctx, `SELECT id::text FROM users WHERE email = $1`, p.VendorEmail).Scan(&vendorID); err != nil {
		return fmt.Errorf("vendor lookup: %w", err)
	}
	var exists bool
	if err := pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM products WHERE vendor_id = $1 AND name = $2)`,
		vendorID, p.Name).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return nil
	}
	const q = `
INSERT INTO products (vendor_id, name, description, price_cents, currency, stock)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err := pool.Exec(ctx, q, vendorID, p.Name, p.Description, p.PriceCents, p.Currency, p.Stock)
	return err
}
