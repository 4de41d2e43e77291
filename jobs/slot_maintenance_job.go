package jobs

import (
	"log"
	"time"

	"massage-service-server/database"
	"massage-service-server/models"
)

// SlotMaintenanceJob closes stale time slots. Slot generation belongs to the
// scheduling system; this job only makes sure slots whose date has passed can
// no longer be claimed.
type SlotMaintenanceJob struct {
	stopChan chan bool
}

// NewSlotMaintenanceJob creates a new slot maintenance job
func NewSlotMaintenanceJob() *SlotMaintenanceJob {
	return &SlotMaintenanceJob{
		stopChan: make(chan bool),
	}
}

// Start begins the slot maintenance job
func (j *SlotMaintenanceJob) Start() {
	go j.run()
	log.Println("🚀 Slot maintenance job started")
}

// Stop stops the slot maintenance job
func (j *SlotMaintenanceJob) Stop() {
	j.stopChan <- true
	log.Println("🛑 Slot maintenance job stopped")
}

func (j *SlotMaintenanceJob) run() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	// Close anything already stale on startup
	j.closeExpiredSlots()

	for {
		select {
		case <-ticker.C:
			j.closeExpiredSlots()
		case <-j.stopChan:
			return
		}
	}
}

// closeExpiredSlots marks past-dated open slots unavailable
func (j *SlotMaintenanceJob) closeExpiredSlots() {
	today := time.Now().Format("2006-01-02")

	res := database.DB.Model(&models.TherapistTimeSlot{}).
		Where("date < ? AND is_available = ? AND is_booked = ?", today, true, false).
		Update("is_available", false)
	if res.Error != nil {
		log.Printf("❌ Error closing expired slots: %v", res.Error)
		return
	}

	if res.RowsAffected > 0 {
		log.Printf("⏰ Closed %d expired time slots", res.RowsAffected)
	}
}
