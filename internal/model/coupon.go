package model

import (
	"time"

	"github.com/google/uuid"
)

// Coupon represents a coupon and the product codes it applies to.
type Coupon struct {
	ID           uuid.UUID `json:"id" yaml:"id" db:"id"`
	Name         string    `json:"name" yaml:"name" db:"name"`
	Description  string    `json:"description" yaml:"description" db:"description"`
	CouponCode   string    `json:"couponCode" yaml:"couponCode" db:"code"`
	Price        float64   `json:"price" yaml:"price" db:"price"`
	MaxUsages    int       `json:"maxUsages" yaml:"maxUsages" db:"max_usages"`
	Usages       int       `json:"usages" yaml:"usages" db:"usages"`
	ProductCodes []string  `json:"productCodes" yaml:"productCodes"`
}

// UniqueProductCodesReport is the result of a unique product code analysis.
type UniqueProductCodesReport struct {
	// Count is the number of coupons holding at least one product code
	// that no other coupon holds.
	Count       int       `json:"count"`
	GeneratedAt time.Time `json:"generatedAt"`
	DurationMs  int64     `json:"durationMs"`
}
