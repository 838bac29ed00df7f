package repository

import (
	"context"

	"coupon-insights/internal/model"
)

// CouponRepository defines the interface for coupon data access operations.
// It satisfies coupon.Source through GetAll.
type CouponRepository interface {
	// GetAll retrieves every coupon with its product codes.
	// The result is never nil.
	GetAll(ctx context.Context) ([]model.Coupon, error)

	// GetByCode retrieves a coupon by its code, ignoring case.
	// Returns nil without error when no coupon matches.
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)

	// Save creates or replaces a coupon and its product associations.
	// Coupon and product codes are stored lower-cased.
	Save(ctx context.Context, c *model.Coupon) error
}
