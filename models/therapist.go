package models

import (
	"time"

	"gorm.io/gorm"
)

// Therapist represents a therapist's professional profile
type Therapist struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	UserID      uint    `json:"user_id" gorm:"uniqueIndex;not null"`
	Name        string  `json:"name" gorm:"size:100;not null"`
	Avatar      *string `json:"avatar" gorm:"size:500"`
	Title       string  `json:"title" gorm:"size:100"`
	Bio         string  `json:"bio" gorm:"type:text"`
	YearsOfExp  int     `json:"years_of_exp" gorm:"default:0"`
	BasePrice   float64 `json:"base_price" gorm:"type:decimal(10,2);default:0"`
	Rating      float64 `json:"rating" gorm:"type:decimal(3,2);default:0"`
	ReviewCount int     `json:"review_count" gorm:"default:0"`

	// Order counters
	BookingCount   int `json:"booking_count" gorm:"default:0"`
	CompletedCount int `json:"completed_count" gorm:"default:0"`

	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	User     User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Bookings []Booking `json:"bookings,omitempty" gorm:"foreignKey:TherapistID"`
}

// TableName specifies the table name for the Therapist model
func (Therapist) TableName() string {
	return "therapists"
}

// TherapistService links a therapist to a service they offer, with an
// optional price override. A nil Price means the service base price applies.
type TherapistService struct {
	ID          uint     `json:"id" gorm:"primaryKey"`
	TherapistID uint     `json:"therapist_id" gorm:"not null;index;uniqueIndex:idx_therapist_service"`
	ServiceID   uint     `json:"service_id" gorm:"not null;index;uniqueIndex:idx_therapist_service"`
	Price       *float64 `json:"price" gorm:"type:decimal(10,2)"`
	IsActive    bool     `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Therapist Therapist `json:"therapist,omitempty" gorm:"foreignKey:TherapistID"`
	Service   Service   `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
}

// TherapistTimeSlot is one bookable window in a therapist's calendar.
// Slots are generated ahead of time by the scheduling side; booking claims
// them, cancellation releases them. A slot with IsBooked=false must always
// have BookingID=nil.
type TherapistTimeSlot struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	TherapistID uint      `json:"therapist_id" gorm:"not null;index:idx_slot_lookup"`
	Date        time.Time `json:"date" gorm:"type:date;not null;index:idx_slot_lookup"`
	StartTime   string    `json:"start_time" gorm:"size:5;not null;index:idx_slot_lookup"` // "14:00"
	EndTime     string    `json:"end_time" gorm:"size:5;not null"`

	IsAvailable bool  `json:"is_available" gorm:"default:true"`
	IsBooked    bool  `json:"is_booked" gorm:"default:false"`
	BookingID   *uint `json:"booking_id" gorm:"index"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Therapist Therapist `json:"therapist,omitempty" gorm:"foreignKey:TherapistID"`
}

// TableName specifies the table name for the TherapistTimeSlot model
func (TherapistTimeSlot) TableName() string {
	return "therapist_time_slots"
}
