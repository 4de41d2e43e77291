package services

import (
	"log"
	"time"

	"gorm.io/gorm"

	"massage-service-server/models"
)

// OrderListFilter narrows a therapist's order list.
type OrderListFilter struct {
	Status   string
	Date     string // "2006-01-02"
	Page     int
	PageSize int
}

// OrderStats is the therapist dashboard summary.
type OrderStats struct {
	TotalCount     int     `json:"total_count"`
	CompletedCount int     `json:"completed_count"`
	PendingCount   int64   `json:"pending_count"`
	TodayCount     int64   `json:"today_count"`
	TotalIncome    float64 `json:"total_income"`
}

// OrderService owns the therapist side of the order lifecycle. Every
// operation resolves the therapist profile from the authenticated user and
// only ever touches that therapist's bookings.
type OrderService struct {
	db         *gorm.DB
	dispatcher *Dispatcher
}

func NewOrderService(db *gorm.DB, dispatcher *Dispatcher) *OrderService {
	return &OrderService{db: db, dispatcher: dispatcher}
}

// TherapistByUser resolves the therapist profile behind an authenticated user.
func (s *OrderService) TherapistByUser(userID uint) (*models.Therapist, error) {
	var therapist models.Therapist
	err := s.db.Where("user_id = ?", userID).First(&therapist).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrTherapistProfile
		}
		return nil, err
	}
	return &therapist, nil
}

// List returns the therapist's orders, newest first.
func (s *OrderService) List(therapistID uint, f OrderListFilter) ([]models.Booking, int64, error) {
	query := s.db.Model(&models.Booking{}).Where("therapist_id = ?", therapistID)
	if f.Status != "" {
		query = query.Where("status = ?", f.Status)
	}
	if f.Date != "" {
		query = query.Where("booking_date = ?", f.Date)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []models.Booking
	err := query.
		Preload("User").Preload("Service").Preload("Order").
		Order("created_at DESC").
		Offset((f.Page - 1) * f.PageSize).Limit(f.PageSize).
		Find(&bookings).Error
	return bookings, total, err
}

// Get returns one of the therapist's orders.
func (s *OrderService) Get(therapistID, bookingID uint) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.
		Preload("User").Preload("Service").Preload("Order").
		Where("id = ? AND therapist_id = ?", bookingID, therapistID).
		First(&booking).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &booking, nil
}

// Accept confirms a pending order.
func (s *OrderService) Accept(therapistID, bookingID uint) (*models.Booking, error) {
	booking, err := s.Get(therapistID, bookingID)
	if err != nil {
		return nil, err
	}

	next, err := models.NextStatus(booking.Status, models.EventAccept, models.ActorTherapist)
	if err != nil {
		return nil, err
	}

	res := s.db.Model(&models.Booking{}).
		Where("id = ? AND status = ?", booking.ID, booking.Status).
		Update("status", next)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, &models.InvalidTransitionError{Current: booking.Status, Event: models.EventAccept}
	}
	booking.Status = next

	log.Printf("✅ Booking %s accepted by therapist %d", booking.BookingNo, therapistID)
	return booking, nil
}

// Reject declines a pending order and releases its slot so another customer
// can book it.
func (s *OrderService) Reject(therapistID, bookingID uint, reason string) (*models.Booking, error) {
	booking, err := s.Get(therapistID, bookingID)
	if err != nil {
		return nil, err
	}

	next, err := models.NextStatus(booking.Status, models.EventReject, models.ActorTherapist)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	cancelledBy := models.CancelledByTherapist
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
			return &models.InvalidTransitionError{Current: booking.Status, Event: models.EventReject}
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

	log.Printf("🚫 Booking %s rejected by therapist %d", booking.BookingNo, therapistID)
	return booking, nil
}

// CheckIn records a service milestone: arrived, start_service or
// complete_service. Completion also increments the therapist's completed
// count, atomically with the status write.
func (s *OrderService) CheckIn(therapistID, bookingID uint, event models.OrderEvent, note *string) (*models.Booking, error) {
	switch event {
	case models.EventArrived, models.EventStartService, models.EventCompleteService:
	default:
		return nil, &models.InvalidTransitionError{Current: "", Event: event}
	}

	booking, err := s.Get(therapistID, bookingID)
	if err != nil {
		return nil, err
	}

	next, err := models.NextStatus(booking.Status, event, models.ActorTherapist)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	updates := map[string]interface{}{"status": next}
	if note != nil {
		updates["therapist_note"] = *note
	}
	switch event {
	case models.EventArrived:
		updates["therapist_arrived_at"] = now
		booking.TherapistArrivedAt = &now
	case models.EventStartService:
		updates["service_started_at"] = now
		booking.ServiceStartedAt = &now
	case models.EventCompleteService:
		updates["service_completed_at"] = now
		booking.ServiceCompletedAt = &now
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Booking{}).
			Where("id = ? AND status = ?", booking.ID, booking.Status).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return &models.InvalidTransitionError{Current: booking.Status, Event: event}
		}
		if event == models.EventCompleteService {
			return tx.Model(&models.Therapist{}).
				Where("id = ?", therapistID).
				Update("completed_count", gorm.Expr("completed_count + 1")).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	booking.Status = next
	if note != nil {
		booking.TherapistNote = note
	}

	log.Printf("📍 Booking %s moved to %s by therapist %d", booking.BookingNo, next, therapistID)

	if event == models.EventCompleteService && s.dispatcher != nil {
		b := *booking
		go s.dispatcher.NotifyOrderCompleted(therapistID, &b)
	}

	return booking, nil
}

// UpdateStatus maps a requested target status onto the corresponding
// milestone event, so clients driving status directly still go through the
// state machine.
func (s *OrderService) UpdateStatus(therapistID, bookingID uint, target models.BookingStatus, note *string) (*models.Booking, error) {
	var event models.OrderEvent
	switch target {
	case models.BookingStatusConfirmed:
		return s.Accept(therapistID, bookingID)
	case models.BookingStatusEnRoute:
		event = models.EventArrived
	case models.BookingStatusInProgress:
		event = models.EventStartService
	case models.BookingStatusCompleted:
		event = models.EventCompleteService
	default:
		booking, err := s.Get(therapistID, bookingID)
		if err != nil {
			return nil, err
		}
		return nil, &models.InvalidTransitionError{Current: booking.Status, Event: models.OrderEvent(target)}
	}
	return s.CheckIn(therapistID, bookingID, event, note)
}

// Stats returns the therapist dashboard summary.
func (s *OrderService) Stats(therapist *models.Therapist) (*OrderStats, error) {
	stats := &OrderStats{
		TotalCount:     therapist.BookingCount,
		CompletedCount: therapist.CompletedCount,
	}

	err := s.db.Model(&models.Booking{}).
		Where("therapist_id = ? AND status = ?", therapist.ID, models.BookingStatusPending).
		Count(&stats.PendingCount).Error
	if err != nil {
		return nil, err
	}

	today := time.Now().Format("2006-01-02")
	err = s.db.Model(&models.Booking{}).
		Where("therapist_id = ? AND booking_date = ?", therapist.ID, today).
		Count(&stats.TodayCount).Error
	if err != nil {
		return nil, err
	}

	var income *float64
	err = s.db.Model(&models.Booking{}).
		Select("SUM(total_price)").
		Where("therapist_id = ? AND status = ?", therapist.ID, models.BookingStatusCompleted).
		Scan(&income).Error
	if err != nil {
		return nil, err
	}
	if income != nil {
		stats.TotalIncome = *income
	}

	return stats, nil
}
