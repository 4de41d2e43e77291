package models

import (
	"time"
)

type CouponType string

const (
	CouponTypePercentage CouponType = "percentage"
	CouponTypeFixed      CouponType = "fixed"
)

type CouponStatus string

const (
	CouponStatusActive   CouponStatus = "active"
	CouponStatusUsed     CouponStatus = "used"
	CouponStatusExpired  CouponStatus = "expired"
	CouponStatusDisabled CouponStatus = "disabled"
)

// UserCoupon is a coupon held by a user. Terms are snapshotted onto the row
// at issue time so later template edits do not change issued coupons.
type UserCoupon struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	UserID uint `json:"user_id" gorm:"not null;index"`

	Name       string     `json:"name" gorm:"size:100;not null"`
	CouponType CouponType `json:"coupon_type" gorm:"type:varchar(20);not null"`
	Value      float64    `json:"value" gorm:"type:decimal(10,2);not null"` // percentage or amount

	MinOrderAmount float64  `json:"min_order_amount" gorm:"type:decimal(10,2);default:0"`
	MaxDiscount    *float64 `json:"max_discount" gorm:"type:decimal(10,2)"` // percentage coupons only

	Status      CouponStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
	UsedAt      *time.Time   `json:"used_at"`
	UsedOrderID *uint        `json:"used_order_id"`

	ValidStart time.Time `json:"valid_start"`
	ValidEnd   time.Time `json:"valid_end"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the UserCoupon model
func (UserCoupon) TableName() string {
	return "user_coupons"
}
