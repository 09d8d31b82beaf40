package order

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

const orderColumns = `id::text, customer_id::text, status, payment_status, payment_method, total_cents,
       ship_name, ship_phone, ship_street, ship_city, ship_state, ship_zip, ship_country, notes, created_at`

const itemColumns = `id::text, order_id::text, product_id::text, vendor_id::text, product_name, unit_price_cents, image_url, quantity, customization`

func (r *postgresRepo) Create(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO orders (customer_id, status, payment_status, payment_method, total_cents,
                    ship_name, ship_phone, ship_street, ship_city, ship_state, ship_zip, ship_country, notes)
VALUES ($1, 'pending', 'pending', $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING ` + orderColumns
	var ord domain.Order
	if err := scanOrder(tx.QueryRow(ctx, q,
		in.CustomerID, in.PaymentMethod, in.TotalCents,
		in.Shipping.Name, in.Shipping.Phone, in.Shipping.Street, in.Shipping.City,
		in.Shipping.State, in.Shipping.Zip, in.Shipping.Country, in.Notes,
	), &ord); err != nil {
		return nil, err
	}

	for _, item := range in.Items {
		customization := item.Customization
		if customization == nil {
			customization = map[string]interface{}{}
		}
		var frozen domain.OrderItem
		if err := scanItem(tx.QueryRow(ctx, `
INSERT INTO order_items (order_id, product_id, vendor_id, product_name, unit_price_cents, image_url, quantity, customization)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+itemColumns,
			ord.ID, item.ProductID, item.VendorID, item.ProductName,
			item.UnitPriceCents, item.ImageURL, item.Quantity, customization,
		), &frozen); err != nil {
			return nil, err
		}
		ord.Items = append(ord.Items, frozen)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &ord, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	var ord domain.Order
	err := scanOrder(r.pool.QueryRow(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id), &ord)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	items, err := r.fetchItems(ctx, ord.ID)
	if err != nil {
		return nil, err
	}
	ord.Items = items
	return &ord, nil
}

func (r *postgresRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+orderColumns+`
FROM orders
WHERE customer_id = $1
ORDER BY created_at DESC
`, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Order
	for rows.Next() {
		var ord domain.Order
		if err := scanOrder(rows, &ord); err != nil {
			return nil, err
		}
		out = append(out, ord)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := r.fetchItems(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (r *postgresRepo) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET status = $1
WHERE id = $2 AND status = $3
`, to, id, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		// The stored status moved under us; the transition no longer applies.
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *postgresRepo) ClaimCancel(ctx context.Context, id string) (*domain.Order, error) {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET status = 'cancelled'
WHERE id = $1 AND status NOT IN ('cancelled', 'delivered')
`, id)
	if err != nil {
		return nil, err
	}
	if cmd.RowsAffected() == 0 {
		var status domain.OrderStatus
		err := r.pool.QueryRow(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&status)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrNotFound
			}
			return nil, err
		}
		if status == domain.StatusCancelled {
			return nil, domain.ErrAlreadyCancelled
		}
		return nil, domain.ErrInvalidTransition
	}
	return r.GetByID(ctx, id)
}

func (r *postgresRepo) SetPaymentStatus(ctx context.Context, id string, from, to domain.PaymentStatus) error {
	cmd, err := r.pool.Exec(ctx, `
UPDATE orders
SET payment_status = $1
WHERE id = $2 AND payment_status = $3
`, to, id, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		var exists bool
		if err := r.pool.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrNotFound
		}
		return domain.ErrInvalidTransition
	}
	return nil
}

func (r *postgresRepo) ListByVendor(ctx context.Context, vendorID string) ([]domain.VendorOrder, error) {
	rows, err := r.pool.Query(ctx, `
SELECT DISTINCT o.id::text, o.status, o.payment_status, o.created_at
FROM orders o
JOIN order_items oi ON oi.order_id = o.id
WHERE oi.vendor_id = $1
ORDER BY o.created_at DESC
`, vendorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.VendorOrder
	for rows.Next() {
		var vo domain.VendorOrder
		if err := rows.Scan(&vo.OrderID, &vo.Status, &vo.PaymentStatus, &vo.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, vo)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Restrict each order to the vendor's own lines; other vendors' items
	// and pricing never cross this boundary.
	for i := range out {
		itemRows, err := r.pool.Query(ctx, `
SELECT `+itemColumns+`
FROM order_items
WHERE order_id = $1 AND vendor_id = $2
`, out[i].OrderID, vendorID)
		if err != nil {
			return nil, err
		}
		for itemRows.Next() {
			var item domain.OrderItem
			if err := scanItem(itemRows, &item); err != nil {
				itemRows.Close()
				return nil, err
			}
			out[i].Items = append(out[i].Items, item)
			out[i].VendorTotalCents += item.UnitPriceCents * int64(item.Quantity)
		}
		if err := itemRows.Err(); err != nil {
			itemRows.Close()
			return nil, err
		}
		itemRows.Close()
	}
	return out, nil
}

func (r *postgresRepo) RevenueCents(ctx context.Context, vendorID string) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx, `
SELECT COALESCE(SUM(oi.unit_price_cents * oi.quantity), 0)
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
WHERE oi.vendor_id = $1 AND o.status <> 'cancelled'
`, vendorID).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total, nil
}

func (r *postgresRepo) fetchItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	rows, err := r.pool.Query(ctx, `
SELECT `+itemColumns+`
FROM order_items
WHERE order_id = $1
`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := scanItem(rows, &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func scanOrder(row pgx.Row, ord *domain.Order) error {
	return row.Scan(
		&ord.ID, &ord.CustomerID, &ord.Status, &ord.PaymentStatus, &ord.PaymentMethod, &ord.TotalCents,
		&ord.Shipping.Name, &ord.Shipping.Phone, &ord.Shipping.Street, &ord.Shipping.City,
		&ord.Shipping.State, &ord.Shipping.Zip, &ord.Shipping.Country, &ord.Notes, &ord.CreatedAt,
	)
}

func scanItem(row pgx.Row, item *domain.OrderItem) error {
	return row.Scan(
		&item.ID, &item.OrderID, &item.ProductID, &item.VendorID, &item.ProductName,
		&item.UnitPriceCents, &item.ImageURL, &item.Quantity, &item.Customization,
	)
}
