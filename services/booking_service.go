package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"massage-service-server/models"
)

// CreateBookingInput carries everything needed to create a booking.
type CreateBookingInput struct {
	TherapistID uint
	ServiceID   uint
	AddressID   uint
	BookingDate time.Time
	StartTime   string // "14:00"
	CouponID    *uint
	PointsToUse int
	UserNote    *string
}

// BookingService owns the customer side of the booking ledger: price preview,
// creation, listing and cancellation.
type BookingService struct {
	db         *gorm.DB
	dispatcher *Dispatcher
}

func NewBookingService(db *gorm.DB, dispatcher *Dispatcher) *BookingService {
	return &BookingService{db: db, dispatcher: dispatcher}
}

// PreviewPrice computes the quote a booking would be created with, without
// touching any state.
func (s *BookingService) PreviewPrice(user *models.User, therapistID, serviceID uint, couponID *uint, pointsToUse int) (*Quote, error) {
	price, _, err := ResolveServicePrice(s.db, therapistID, serviceID)
	if err != nil {
		return nil, err
	}

	var coupon *models.UserCoupon
	if couponID != nil {
		coupon, err = LoadCoupon(s.db, *couponID, user.ID)
		if err != nil {
			return nil, err
		}
	}

	quote := ComputeQuote(price, coupon, pointsToUse, user.Points)
	return &quote, nil
}

// Create books a slot for the customer. Booking row, order row, slot claim,
// coupon redemption and points debit all commit in one transaction; any
// failure rolls back everything and the slot stays open.
func (s *BookingService) Create(user *models.User, in CreateBookingInput) (*models.Booking, error) {
	var therapist models.Therapist
	err := s.db.Where("id = ? AND is_active = ?", in.TherapistID, true).First(&therapist).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTherapistNotFound
		}
		return nil, err
	}

	price, service, err := ResolveServicePrice(s.db, in.TherapistID, in.ServiceID)
	if err != nil {
		return nil, err
	}

	var address models.Address
	err = s.db.Where("id = ? AND user_id = ?", in.AddressID, user.ID).First(&address).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}

	var coupon *models.UserCoupon
	if in.CouponID != nil {
		coupon, err = LoadCoupon(s.db, *in.CouponID, user.ID)
		if err != nil {
			return nil, err
		}
	}

	quote := ComputeQuote(price, coupon, in.PointsToUse, user.Points)

	booking := &models.Booking{
		BookingNo:       generateBookingNo(),
		UserID:          user.ID,
		TherapistID:     in.TherapistID,
		ServiceID:       in.ServiceID,
		AddressID:       in.AddressID,
		BookingDate:     in.BookingDate,
		StartTime:       in.StartTime,
		EndTime:         addMinutes(in.StartTime, service.Duration),
		Duration:        service.Duration,
		ServicePrice:    quote.ServicePrice,
		DiscountAmount:  quote.DiscountAmount,
		CouponID:        in.CouponID,
		CouponDeduction: quote.CouponDeduction,
		PointsUsed:      quote.PointsUsed,
		PointsDeduction: quote.PointsDeduction,
		TotalPrice:      quote.TotalPrice,
		Status:          models.BookingStatusPending,
		UserNote:        in.UserNote,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(booking).Error; err != nil {
			return err
		}

		order := &models.Order{
			OrderNo:     generateOrderNo(),
			UserID:      user.ID,
			BookingID:   booking.ID,
			TotalAmount: quote.TotalPrice,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		if err := ClaimSlot(tx, in.TherapistID, in.BookingDate, in.StartTime, booking.ID); err != nil {
			return err
		}

		if coupon != nil {
			// Conditional on the coupon still being active so a concurrent
			// redemption cannot spend it twice.
			now := time.Now()
			res := tx.Model(&models.UserCoupon{}).
				Where("id = ? AND status = ?", coupon.ID, models.CouponStatusActive).
				Updates(map[string]interface{}{
					"status":        models.CouponStatusUsed,
					"used_at":       now,
					"used_order_id": order.ID,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrCouponInvalid
			}
		}

		if debit := quote.PointsToDebit(); debit > 0 {
			res := tx.Model(&models.User{}).
				Where("id = ? AND points >= ?", user.ID, debit).
				Update("points", gorm.Expr("points - ?", debit))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientPoints
			}
		}

		return tx.Model(&models.Therapist{}).
			Where("id = ?", in.TherapistID).
			Update("booking_count", gorm.Expr("booking_count + 1")).Error
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Booking %s created for user %d (therapist %d, total %.2f)", booking.BookingNo, user.ID, in.TherapistID, booking.TotalPrice)

	// Dispatch after commit so a notification failure can never roll back the
	// booking.
	if s.dispatcher != nil {
		go s.dispatcher.NotifyNewOrder(in.TherapistID, booking, service.Name, user.Nickname)
	}

	return booking, nil
}

// List returns the customer's bookings, newest first, optionally filtered by
// status.
func (s *BookingService) List(userID uint, status string, page, pageSize int) ([]models.Booking, int64, error) {
	query := s.db.Model(&models.Booking{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []models.Booking
	err := query.
		Preload("Therapist").Preload("Service").Preload("Order").
		Order("created_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&bookings).Error
	return bookings, total, err
}

// Get returns one of the customer's bookings with its relations loaded.
func (s *BookingService) Get(userID, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.
		Preload("Therapist").Preload("Service").Preload("Order").
		Where("id = ? AND user_id = ?", bookingID, userID).
		First(&booking).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// Cancel cancels one of the customer's bookings. Only pending and confirmed
// bookings can be cancelled; the claimed slot is released in the same
// transaction as the status write.
func (s *BookingService) Cancel(userID, bookingID uint, reason string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.Where("id = ? AND user_id = ?", bookingID, userID).First(&booking).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}

	next, err := models.NextStatus(booking.Status, models.EventCancel, models.ActorCustomer)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cancelledBy := models.CancelledByCustomer
	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, booking.Status).
			Updates(map[string]interface{}{
				"status":        next,
				"cancel_reason": reason,
				"cancelled_by":  cancelledBy,
				"cancelled_at":  now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &models.InvalidTransitionError{Current: booking.Status, Event: models.EventCancel}
		}
		return ReleaseSlot(tx, booking.ID)
	})
	if err != nil {
		return nil, err
	}

	booking.Status = next
	booking.CancelReason = &reason
	booking.CancelledBy = &cancelledBy
	booking.CancelledAt = &now

	log.Printf("🚫 Booking %s cancelled by customer %d", booking.BookingNo, userID)

	if s.dispatcher != nil {
		b := booking
		go s.dispatcher.NotifyOrderCancelled(booking.TherapistID, &b, reason)
	}

	return &booking, nil
}

// addMinutes advances an "HH:MM" clock string, wrapping past midnight.
func addMinutes(start string, minutes int) string {
	t, err := time.Parse("15:04", start)
	if err != nil {
		return start
	}
	return t.Add(time.Duration(minutes) * time.Minute).Format("15:04")
}

func generateBookingNo() string {
	return generateNo("BK")
}

func generateOrderNo() string {
	return generateNo("OD")
}

func generateNo(prefix string) string {
	suffix := strings.ReplaceAll(uuid.New().String(), "-", "")[:6]
	return fmt.Sprintf("%s%s%s", prefix, time.Now().Format("20060102150405"), suffix)
}
