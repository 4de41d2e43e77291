package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"massage-service-server/models"
)

func fixedCoupon(value, minOrder float64) *models.UserCoupon {
	return &models.UserCoupon{
		CouponType:     models.CouponTypeFixed,
		Value:          value,
		MinOrderAmount: minOrder,
		Status:         models.CouponStatusActive,
	}
}

func percentageCoupon(value, minOrder float64, maxDiscount *float64) *models.UserCoupon {
	return &models.UserCoupon{
		CouponType:     models.CouponTypePercentage,
		Value:          value,
		MinOrderAmount: minOrder,
		MaxDiscount:    maxDiscount,
		Status:         models.CouponStatusActive,
	}
}

func TestComputeQuoteNoDeductions(t *testing.T) {
	q := ComputeQuote(298, nil, 0, 0)
	assert.Equal(t, 298.0, q.ServicePrice)
	assert.Equal(t, 0.0, q.CouponDeduction)
	assert.Equal(t, 0.0, q.PointsDeduction)
	assert.Equal(t, 298.0, q.TotalPrice)
}

func TestComputeQuoteFixedCoupon(t *testing.T) {
	q := ComputeQuote(300, fixedCoupon(50, 200), 0, 0)
	assert.Equal(t, 50.0, q.CouponDeduction)
	assert.Equal(t, 250.0, q.TotalPrice)
}

func TestComputeQuoteCouponBelowMinimum(t *testing.T) {
	q := ComputeQuote(150, fixedCoupon(50, 200), 0, 0)
	assert.Equal(t, 0.0, q.CouponDeduction)
	assert.Equal(t, 150.0, q.TotalPrice)
}

func TestComputeQuotePercentageCoupon(t *testing.T) {
	q := ComputeQuote(400, percentageCoupon(10, 0, nil), 0, 0)
	assert.Equal(t, 40.0, q.CouponDeduction)
	assert.Equal(t, 360.0, q.TotalPrice)
}

func TestComputeQuotePercentageCouponCapped(t *testing.T) {
	cap := 30.0
	q := ComputeQuote(400, percentageCoupon(10, 0, &cap), 0, 0)
	assert.Equal(t, 30.0, q.CouponDeduction)
	assert.Equal(t, 370.0, q.TotalPrice)
}

func TestComputeQuotePointsCappedAtTwentyPercent(t *testing.T) {
	// 10000 points is worth 100, but 20% of a 300 service is 60
	q := ComputeQuote(300, nil, 10000, 10000)
	assert.Equal(t, 60.0, q.PointsDeduction)
	assert.Equal(t, 240.0, q.TotalPrice)
	assert.Equal(t, 6000, q.PointsToDebit())
}

func TestComputeQuotePointsLimitedByBalance(t *testing.T) {
	// Customer asks for 5000 points but only holds 2000
	q := ComputeQuote(300, nil, 5000, 2000)
	assert.Equal(t, 20.0, q.PointsDeduction)
	assert.Equal(t, 280.0, q.TotalPrice)
	assert.Equal(t, 2000, q.PointsToDebit())
}

func TestComputeQuoteStackedDeductions(t *testing.T) {
	// 300 service, 50 coupon, 60 from points => 190
	q := ComputeQuote(300, fixedCoupon(50, 200), 6000, 10000)
	assert.Equal(t, 50.0, q.CouponDeduction)
	assert.Equal(t, 60.0, q.PointsDeduction)
	assert.Equal(t, 190.0, q.TotalPrice)
}

func TestComputeQuoteNeverNegative(t *testing.T) {
	q := ComputeQuote(40, fixedCoupon(50, 0), 0, 0)
	assert.Equal(t, 0.0, q.TotalPrice)
}

func TestComputeQuoteZeroPointsRequested(t *testing.T) {
	q := ComputeQuote(300, nil, 0, 10000)
	assert.Equal(t, 0.0, q.PointsDeduction)
	assert.Equal(t, 0, q.PointsToDebit())
	assert.Equal(t, 300.0, q.TotalPrice)
}
