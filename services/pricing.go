package services

import (
	"math"

	"gorm.io/gorm"

	"massage-service-server/models"
)

// Points convert at 100 points = 1 currency unit, and may cover at most 20%
// of the service price.
const (
	pointsPerUnit  = 100
	maxPointsShare = 0.2
)

// Quote is the price breakdown for a booking. Deductions apply sequentially
// (discount, then coupon, then points) without compounding, and the total
// never goes below zero.
type Quote struct {
	ServicePrice    float64 `json:"service_price"`
	DiscountAmount  float64 `json:"discount_amount"`
	CouponDeduction float64 `json:"coupon_deduction"`
	PointsUsed      int     `json:"points_used"`
	PointsDeduction float64 `json:"points_deduction"`
	TotalPrice      float64 `json:"total_price"`
}

// PointsToDebit returns how many points the customer actually spends for the
// quoted deduction
func (q *Quote) PointsToDebit() int {
	return int(math.Floor(q.PointsDeduction * pointsPerUnit))
}

// ComputeQuote applies coupon and points deductions to a service price.
// The coupon must already be validated for ownership and status; a coupon
// below its minimum order amount simply contributes nothing.
func ComputeQuote(servicePrice float64, coupon *models.UserCoupon, pointsToUse, customerPoints int) Quote {
	q := Quote{ServicePrice: servicePrice}

	if coupon != nil && servicePrice >= coupon.MinOrderAmount {
		switch coupon.CouponType {
		case models.CouponTypePercentage:
			deduction := servicePrice * coupon.Value / 100
			if coupon.MaxDiscount != nil {
				deduction = math.Min(deduction, *coupon.MaxDiscount)
			}
			q.CouponDeduction = round2(deduction)
		default:
			q.CouponDeduction = round2(coupon.Value)
		}
	}

	if pointsToUse > 0 {
		usable := pointsToUse
		if customerPoints < usable {
			usable = customerPoints
		}
		deduction := float64(usable) / pointsPerUnit
		deduction = math.Min(deduction, servicePrice*maxPointsShare)
		q.PointsDeduction = round2(deduction)
		q.PointsUsed = pointsToUse
	}

	total := servicePrice - q.DiscountAmount - q.CouponDeduction - q.PointsDeduction
	q.TotalPrice = round2(math.Max(0, total))
	return q
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ResolveServicePrice returns the effective price for a therapist/service
// pair (therapist override when present, service base price otherwise) along
// with the service record.
func ResolveServicePrice(db *gorm.DB, therapistID, serviceID uint) (float64, *models.Service, error) {
	var ts models.TherapistService
	err := db.Where("therapist_id = ? AND service_id = ? AND is_active = ?", therapistID, serviceID, true).
		First(&ts).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil, ErrServiceNotOffered
		}
		return 0, nil, err
	}

	var service models.Service
	if err := db.First(&service, serviceID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil, ErrServiceNotOffered
		}
		return 0, nil, err
	}

	price := service.BasePrice
	if ts.Price != nil {
		price = *ts.Price
	}
	return price, &service, nil
}

// LoadCoupon fetches a coupon and checks it belongs to the customer and is
// still active. Any other condition is ErrCouponInvalid.
func LoadCoupon(db *gorm.DB, couponID, userID uint) (*models.UserCoupon, error) {
	var coupon models.UserCoupon
	err := db.Where("id = ? AND user_id = ? AND status = ?", couponID, userID, models.CouponStatusActive).
		First(&coupon).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrCouponInvalid
		}
		return nil, err
	}
	return &coupon, nil
}
