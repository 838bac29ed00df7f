package service

import (
	"context"
	"fmt"
	"time"

	"coupon-insights/internal/coupon"
	"coupon-insights/internal/metrics"
	"coupon-insights/internal/model"

	"github.com/rs/zerolog"
)

// reportService implements ReportService.
type reportService struct {
	counter coupon.Counter
	metrics *metrics.Metrics
	logger  zerolog.Logger
	now     func() time.Time
}

// NewReportService creates a new report service. m may be nil.
func NewReportService(counter coupon.Counter, m *metrics.Metrics, logger zerolog.Logger) ReportService {
	return &reportService{
		counter: counter,
		metrics: m,
		logger:  logger.With().Str("service", "report").Logger(),
		now:     time.Now,
	}
}

// UniqueProductCodes runs the counter once and stamps the result.
func (s *reportService) UniqueProductCodes(ctx context.Context) (*model.UniqueProductCodesReport, error) {
	start := s.now()

	count, err := s.counter.CountCouponsWithUniqueProductCodes(ctx)
	duration := s.now().Sub(start)
	s.metrics.ObserveReport(duration, count, err)

	if err != nil {
		s.logger.Error().Err(err).Dur("duration", duration).Msg("failed to count coupons with unique product codes")
		return nil, fmt.Errorf("failed to count coupons with unique product codes: %w", err)
	}

	s.logger.Info().
		Int("count", count).
		Dur("duration", duration).
		Msg("unique product code report generated")

	return &model.UniqueProductCodesReport{
		Count:       count,
		GeneratedAt: start.UTC(),
		DurationMs:  duration.Milliseconds(),
	}, nil
}
