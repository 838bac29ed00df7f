package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"coupon-insights/internal/metrics"
	"coupon-insights/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// MockCounter is a mock implementation of coupon.Counter.
type MockCounter struct {
	mock.Mock
}

func (m *MockCounter) CountCouponsWithUniqueProductCodes(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

// fixedClock returns successive instants step apart.
func fixedClock(start time.Time, step time.Duration) func() time.Time {
	current := start.Add(-step)
	return func() time.Time {
		current = current.Add(step)
		return current
	}
}

func TestReportService_UniqueProductCodes(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()
	start := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	sourceErr := errors.New("database error")

	tests := []struct {
		name        string
		mockCount   int
		mockError   error
		expectError bool
		expected    *model.UniqueProductCodesReport
	}{
		{
			name:      "Success",
			mockCount: 3,
			expected: &model.UniqueProductCodesReport{
				Count:       3,
				GeneratedAt: start,
				DurationMs:  250,
			},
		},
		{
			name:      "Success with zero coupons",
			mockCount: 0,
			expected: &model.UniqueProductCodesReport{
				Count:       0,
				GeneratedAt: start,
				DurationMs:  250,
			},
		},
		{
			name:        "Counter error",
			mockError:   sourceErr,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockCounter := new(MockCounter)
			mockCounter.On("CountCouponsWithUniqueProductCodes", ctx).
				Return(tt.mockCount, tt.mockError).Once()

			svc := NewReportService(mockCounter, nil, logger).(*reportService)
			svc.now = fixedClock(start, 250*time.Millisecond)

			report, err := svc.UniqueProductCodes(ctx)

			if tt.expectError {
				require.Error(t, err)
				assert.Nil(t, report)
				assert.ErrorIs(t, err, sourceErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, report)
			}

			mockCounter.AssertExpectations(t)
		})
	}
}

func TestReportService_RecordsMetrics(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	mockCounter := new(MockCounter)
	mockCounter.On("CountCouponsWithUniqueProductCodes", ctx).Return(5, nil).Once()
	mockCounter.On("CountCouponsWithUniqueProductCodes", ctx).Return(0, errors.New("boom")).Once()

	svc := NewReportService(mockCounter, m, logger)

	_, err := svc.UniqueProductCodes(ctx)
	require.NoError(t, err)
	_, err = svc.UniqueProductCodes(ctx)
	require.Error(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ReportRuns.WithLabelValues(metrics.ResultSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ReportRuns.WithLabelValues(metrics.ResultError)))
	assert.Equal(t, float64(5), testutil.ToFloat64(m.UniqueCoupons))
}

func TestReportService_PropagatesDomainError(t *testing.T) {
	ctx := context.Background()

	mockCounter := new(MockCounter)
	mockCounter.On("CountCouponsWithUniqueProductCodes", ctx).Return(0, model.ErrNilCouponCollection)

	_, err := NewReportService(mockCounter, nil, zerolog.Nop()).UniqueProductCodes(ctx)

	assert.True(t, model.IsDomainError(err, model.ErrCodeInvalidSource))
}
