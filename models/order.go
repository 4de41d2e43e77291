package models

import (
	"time"
)

type PaymentMethod string

const (
	PaymentMethodWechat   PaymentMethod = "wechat"
	PaymentMethodAlipay   PaymentMethod = "alipay"
	PaymentMethodApplePay PaymentMethod = "apple_pay"
	PaymentMethodCard     PaymentMethod = "card"
)

type PaymentStatus string

const (
	PaymentStatusPending       PaymentStatus = "pending"
	PaymentStatusPaid          PaymentStatus = "paid"
	PaymentStatusRefundPending PaymentStatus = "refund_pending"
	PaymentStatusRefunded      PaymentStatus = "refunded"
	PaymentStatusFailed        PaymentStatus = "failed"
)

// Order is the payment record paired 1:1 with a Booking. It is created in the
// same transaction as its Booking; payment and refund collaborators mutate it
// afterwards.
type Order struct {
	ID      uint   `json:"id" gorm:"primaryKey"`
	OrderNo string `json:"order_no" gorm:"size:50;uniqueIndex;not null"`

	UserID    uint `json:"user_id" gorm:"not null;index"`
	BookingID uint `json:"booking_id" gorm:"not null;uniqueIndex"`

	TotalAmount  float64 `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	PaidAmount   float64 `json:"paid_amount" gorm:"type:decimal(10,2);default:0"`
	RefundAmount float64 `json:"refund_amount" gorm:"type:decimal(10,2);default:0"`

	PaymentMethod *PaymentMethod `json:"payment_method" gorm:"type:varchar(20)"`
	PaymentStatus PaymentStatus  `json:"payment_status" gorm:"type:varchar(20);default:'pending'"`

	TransactionID *string    `json:"transaction_id" gorm:"size:100"`
	PaymentTime   *time.Time `json:"payment_time"`

	RefundNo     *string    `json:"refund_no" gorm:"size:50"`
	RefundReason *string    `json:"refund_reason" gorm:"type:text"`
	RefundTime   *time.Time `json:"refund_time"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	User    User    `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Booking Booking `json:"booking,omitempty" gorm:"foreignKey:BookingID"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}
