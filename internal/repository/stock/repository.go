package stock

import "context"

// Repository owns the atomic stock counters. Reserve and Release are the
// only cross-request mutations in the system that need serialization, and
// both are single conditional statements, never read-modify-write pairs.
type Repository interface {
	// Reserve atomically checks available >= quantity and decrements in one
	// step. Returns domain.InsufficientStockError when the check fails.
	Reserve(ctx context.Context, productID string, quantity int) error
	// Release atomically increments available by quantity. Callers are
	// responsible for invoking it at most once per cancellation.
	Release(ctx context.Context, productID string, quantity int) error
	// Available reads the current counter.
	Available(ctx context.Context, productID string) (int, error)
}
