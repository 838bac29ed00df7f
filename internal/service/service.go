package service

import (
	"context"

	"coupon-insights/internal/model"
)

// ReportService defines coupon analysis reports.
type ReportService interface {
	// UniqueProductCodes counts coupons holding at least one product code
	// that no other coupon holds.
	UniqueProductCodes(ctx context.Context) (*model.UniqueProductCodesReport, error)
}
