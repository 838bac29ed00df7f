package coupon

import (
	"context"
	"time"

	"coupon-insights/internal/model"

	"github.com/rs/zerolog"
)

// uniquenessCounter implements Counter with a per-call frequency index.
type uniquenessCounter struct {
	source Source
	logger zerolog.Logger
}

// NewCounter creates a Counter that reads coupons from source.
func NewCounter(source Source, logger zerolog.Logger) Counter {
	return &uniquenessCounter{
		source: source,
		logger: logger.With().Str("component", "uniqueness-counter").Logger(),
	}
}

// CountCouponsWithUniqueProductCodes counts coupons that hold at least one
// product code no other coupon holds. Codes compare case-insensitively and
// repeated codes within one coupon count once.
//
// Example:
//
//	Coupon 1: [PC1, PC2, PC3]
//	Coupon 2: [PC2, PC3]
//
// Only coupon 1 holds PC1, so the count is 1.
func (c *uniquenessCounter) CountCouponsWithUniqueProductCodes(ctx context.Context) (int, error) {
	start := time.Now()

	coupons, err := c.source.GetAll(ctx)
	if err != nil {
		return 0, err
	}
	if coupons == nil {
		return 0, model.ErrNilCouponCollection
	}

	switch len(coupons) {
	case 0:
		return 0, nil
	case 1:
		return 1, nil
	}

	index := newFrequencyIndex(len(coupons))
	distinct := make([][]string, len(coupons))
	seen := newCodeSet(8)

	for i := range coupons {
		codes := coupons[i].ProductCodes
		keys := make([]string, 0, len(codes))

		seen.reset()
		for _, code := range codes {
			if key, added := seen.add(code); added {
				keys = append(keys, key)
			}
		}

		index.add(keys)
		distinct[i] = keys
	}

	count := 0
	for _, keys := range distinct {
		if index.hasUnique(keys) {
			count++
		}
	}

	c.logger.Debug().
		Int("coupons", len(coupons)).
		Int("distinct_codes", len(index)).
		Int("unique_coupons", count).
		Dur("duration", time.Since(start)).
		Msg("counted coupons with unique product codes")

	return count, nil
}
