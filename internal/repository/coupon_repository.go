package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coupon-insights/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const couponColumns = `
	c.id, c.name, c.description, c.code, c.price::float8, c.max_usages, c.usages,
	COALESCE(array_agg(cp.product_code ORDER BY cp.product_code)
		FILTER (WHERE cp.product_code IS NOT NULL), '{}')
`

// couponRepository implements CouponRepository using PostgreSQL.
type couponRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCouponRepository creates a new PostgreSQL-backed coupon repository.
func NewCouponRepository(pool *pgxpool.Pool, logger zerolog.Logger) CouponRepository {
	return &couponRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "coupon").Logger(),
	}
}

// GetAll retrieves every coupon with its product codes in one query.
func (r *couponRepository) GetAll(ctx context.Context) ([]model.Coupon, error) {
	query := `SELECT ` + couponColumns + `
		FROM coupons c
		LEFT JOIN coupon_products cp ON cp.coupon_id = c.id
		GROUP BY c.id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query coupons")
		return nil, fmt.Errorf("failed to query coupons: %w", err)
	}
	defer rows.Close()

	coupons := []model.Coupon{}
	for rows.Next() {
		c, err := scanCoupon(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan coupon row")
			return nil, fmt.Errorf("failed to scan coupon: %w", err)
		}
		coupons = append(coupons, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating coupon rows")
		return nil, fmt.Errorf("error iterating coupons: %w", err)
	}

	r.logger.Debug().Int("count", len(coupons)).Msg("coupons retrieved")

	return coupons, nil
}

// GetByCode retrieves a coupon by code, ignoring case.
func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	query := `SELECT ` + couponColumns + `
		FROM coupons c
		LEFT JOIN coupon_products cp ON cp.coupon_id = c.id
		WHERE c.code = $1
		GROUP BY c.id
	`

	c, err := scanCoupon(r.pool.QueryRow(ctx, query, strings.ToLower(code)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug().Str("code", code).Msg("coupon not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("code", code).Msg("failed to query coupon")
		return nil, fmt.Errorf("failed to query coupon: %w", err)
	}

	return &c, nil
}

// Save upserts the coupon and replaces its product associations in one transaction.
// A zero ID is replaced with a new UUID.
func (r *couponRepository) Save(ctx context.Context, c *model.Coupon) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	code := strings.ToLower(c.CouponCode)
	productCodes := normaliseCodes(c.ProductCodes)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	upsert := `
		INSERT INTO coupons (id, name, description, code, price, max_usages, usages)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			code = EXCLUDED.code,
			price = EXCLUDED.price,
			max_usages = EXCLUDED.max_usages,
			usages = EXCLUDED.usages
	`
	if _, err := tx.Exec(ctx, upsert, c.ID, c.Name, c.Description, code, c.Price, c.MaxUsages, c.Usages); err != nil {
		r.logger.Error().Err(err).Str("coupon_id", c.ID.String()).Msg("failed to save coupon")
		return fmt.Errorf("failed to save coupon: %w", err)
	}

	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM coupon_products WHERE coupon_id = $1`, c.ID)
	if len(productCodes) > 0 {
		batch.Queue(`INSERT INTO products (code) SELECT unnest($1::text[]) ON CONFLICT (code) DO NOTHING`, productCodes)
		batch.Queue(`INSERT INTO coupon_products (coupon_id, product_code) SELECT $1, unnest($2::text[])`, c.ID, productCodes)
	}

	results := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := results.Exec(); err != nil {
			_ = results.Close()
			r.logger.Error().Err(err).Str("coupon_id", c.ID.String()).Msg("failed to save coupon products")
			return fmt.Errorf("failed to save coupon products: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to save coupon products: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.Error().Err(err).Str("coupon_id", c.ID.String()).Msg("failed to commit coupon")
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Debug().
		Str("coupon_id", c.ID.String()).
		Int("products", len(productCodes)).
		Msg("coupon saved")

	return nil
}

// scanCoupon reads one row produced by couponColumns.
func scanCoupon(row pgx.Row) (model.Coupon, error) {
	var c model.Coupon
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.CouponCode, &c.Price, &c.MaxUsages, &c.Usages, &c.ProductCodes)
	return c, err
}

// normaliseCodes lower-cases codes and drops duplicates, keeping first-seen order.
func normaliseCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		code = strings.ToLower(code)
		if _, ok := seen[code]; ok {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}
