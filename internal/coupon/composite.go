package coupon

import (
	"context"

	"coupon-insights/internal/model"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// compositeSource merges the collections of several sources.
type compositeSource struct {
	sources []Source
	logger  zerolog.Logger
}

// NewCompositeSource creates a Source that queries each child exactly once,
// concurrently, and concatenates the results in child order. The first
// child error cancels the others and is returned unchanged.
func NewCompositeSource(logger zerolog.Logger, sources ...Source) Source {
	return &compositeSource{
		sources: sources,
		logger:  logger.With().Str("component", "composite-source").Logger(),
	}
}

// GetAll fetches all children and merges their coupons.
func (s *compositeSource) GetAll(ctx context.Context) ([]model.Coupon, error) {
	results := make([][]model.Coupon, len(s.sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range s.sources {
		g.Go(func() error {
			coupons, err := src.GetAll(gctx)
			if err != nil {
				return err
			}
			if coupons == nil {
				return model.ErrNilCouponCollection
			}
			results[i] = coupons
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		s.logger.Error().Err(err).Int("sources", len(s.sources)).Msg("failed to fetch coupons")
		return nil, err
	}

	total := 0
	for _, coupons := range results {
		total += len(coupons)
	}

	merged := make([]model.Coupon, 0, total)
	for _, coupons := range results {
		merged = append(merged, coupons...)
	}

	s.logger.Debug().
		Int("sources", len(s.sources)).
		Int("coupons", total).
		Msg("merged coupon sources")

	return merged, nil
}
