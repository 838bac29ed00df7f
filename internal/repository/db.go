package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS coupons (
		id UUID PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		code TEXT NOT NULL UNIQUE,
		price DECIMAL(10,2) NOT NULL DEFAULT 0 CHECK (price >= 0),
		max_usages INTEGER NOT NULL DEFAULT 0,
		usages INTEGER NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS products (
		code TEXT PRIMARY KEY
	);
	CREATE TABLE IF NOT EXISTS coupon_products (
		coupon_id UUID NOT NULL REFERENCES coupons(id) ON DELETE CASCADE,
		product_code TEXT NOT NULL REFERENCES products(code),
		PRIMARY KEY (coupon_id, product_code)
	);
	CREATE INDEX IF NOT EXISTS idx_coupon_products_product ON coupon_products(product_code);
`

// EnsureSchema creates the coupon tables when they do not exist.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}
