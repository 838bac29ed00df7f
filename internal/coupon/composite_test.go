package coupon

import (
	"context"
	"errors"
	"testing"

	"coupon-insights/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCompositeSource_MergesInChildOrder(t *testing.T) {
	logger := zerolog.Nop()
	ctx := context.Background()

	first := []model.Coupon{newCoupon("COUP1", "PC1", "PC2", "PC3"), newCoupon("COUP2", "PC2", "PC3")}
	second := []model.Coupon{newCoupon("COUP3", "PC4", "PC5")}
	third := []model.Coupon{newCoupon("COUP4", "PC5", "PC6")}

	source := NewCompositeSource(logger, staticSource(first), staticSource(second), staticSource(third))

	coupons, err := source.GetAll(ctx)

	require.NoError(t, err)
	require.Len(t, coupons, 4)
	assert.Equal(t, "COUP1", coupons[0].CouponCode)
	assert.Equal(t, "COUP2", coupons[1].CouponCode)
	assert.Equal(t, "COUP3", coupons[2].CouponCode)
	assert.Equal(t, "COUP4", coupons[3].CouponCode)

	count, err := NewCounter(source, logger).CountCouponsWithUniqueProductCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestCompositeSource_QueriesEachChildOnce(t *testing.T) {
	logger := zerolog.Nop()

	first := new(MockSource)
	first.On("GetAll", mock.Anything).Return([]model.Coupon{newCoupon("COUP1", "PC1")}, nil).Once()
	second := new(MockSource)
	second.On("GetAll", mock.Anything).Return([]model.Coupon{newCoupon("COUP2", "PC1")}, nil).Once()

	source := NewCompositeSource(logger, first, second)

	count, err := NewCounter(source, logger).CountCouponsWithUniqueProductCodes(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 0, count)
	first.AssertNumberOfCalls(t, "GetAll", 1)
	second.AssertNumberOfCalls(t, "GetAll", 1)
}

func TestCompositeSource_NoChildren(t *testing.T) {
	source := NewCompositeSource(zerolog.Nop())

	coupons, err := source.GetAll(context.Background())

	require.NoError(t, err)
	require.NotNil(t, coupons)
	assert.Empty(t, coupons)
}

func TestCompositeSource_ChildError(t *testing.T) {
	logger := zerolog.Nop()
	childErr := errors.New("redis unavailable")

	failing := new(MockSource)
	failing.On("GetAll", mock.Anything).Return(nil, childErr)

	source := NewCompositeSource(logger, staticSource{newCoupon("COUP1", "PC1")}, failing)

	coupons, err := source.GetAll(context.Background())

	assert.Nil(t, coupons)
	assert.Same(t, childErr, err)
}

func TestCompositeSource_NilChildCollection(t *testing.T) {
	logger := zerolog.Nop()

	nilSource := new(MockSource)
	nilSource.On("GetAll", mock.Anything).Return(nil, nil)

	source := NewCompositeSource(logger, nilSource)

	_, err := source.GetAll(context.Background())

	assert.ErrorIs(t, err, model.ErrNilCouponCollection)
}
