package services

import (
	"time"

	"gorm.io/gorm"

	"massage-service-server/models"
)

// ClaimSlot marks the matching open slot as booked and attaches the booking
// id. The claim is a single conditional UPDATE keyed on the slot still being
// open, so two concurrent claims for the same slot can never both succeed:
// the loser sees zero rows affected and gets ErrSlotUnavailable.
func ClaimSlot(tx *gorm.DB, therapistID uint, date time.Time, startTime string, bookingID uint) error {
	res := tx.Model(&models.TherapistTimeSlot{}).
		Where("therapist_id = ? AND date = ? AND start_time = ? AND is_available = ? AND is_booked = ?",
			therapistID, date.Format("2006-01-02"), startTime, true, false).
		Updates(map[string]interface{}{
			"is_booked":  true,
			"booking_id": bookingID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSlotUnavailable
	}
	return nil
}

// ReleaseSlot frees whatever slot references the booking. Releasing a booking
// with no slot is a no-op: the booking may pre-date slot tracking or the slot
// may already be free.
func ReleaseSlot(tx *gorm.DB, bookingID uint) error {
	return tx.Model(&models.TherapistTimeSlot{}).
		Where("booking_id = ?", bookingID).
		Updates(map[string]interface{}{
			"is_booked":  false,
			"booking_id": nil,
		}).Error
}
