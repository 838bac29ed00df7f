package coupon

import (
	"context"

	"coupon-insights/internal/model"
)

// Source supplies the full collection of coupons to analyse.
//
// Implementations return a non-nil slice (possibly empty) in no particular
// order. A nil slice with a nil error is a contract violation.
type Source interface {
	// GetAll returns all coupons currently known to the system.
	GetAll(ctx context.Context) ([]model.Coupon, error)
}

// Counter reports how many coupons hold at least one product code that
// no other coupon holds.
type Counter interface {
	// CountCouponsWithUniqueProductCodes fetches the coupon collection once
	// and returns the number of coupons with a unique product code.
	// Errors from the Source are returned unchanged.
	CountCouponsWithUniqueProductCodes(ctx context.Context) (int, error)
}

// Loader defines the interface for loading coupon snapshot files.
type Loader interface {
	// Load reads a coupon snapshot (JSON or YAML, optionally gzipped).
	Load(ctx context.Context, path string) ([]model.Coupon, error)
}
