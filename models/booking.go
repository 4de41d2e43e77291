package models

import (
	"fmt"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending    BookingStatus = "pending"
	BookingStatusConfirmed  BookingStatus = "confirmed"
	BookingStatusEnRoute    BookingStatus = "en_route"
	BookingStatusInProgress BookingStatus = "in_progress"
	BookingStatusCompleted  BookingStatus = "completed"
	BookingStatusCancelled  BookingStatus = "cancelled"
	BookingStatusRefunded   BookingStatus = "refunded"
)

// Who cancelled a booking
const (
	CancelledByCustomer  = "customer"
	CancelledByTherapist = "therapist"
)

// OrderActor identifies which side of the marketplace is driving a transition
type OrderActor string

const (
	ActorCustomer  OrderActor = "customer"
	ActorTherapist OrderActor = "therapist"
)

// OrderEvent is a state machine event applied to a booking
type OrderEvent string

const (
	EventAccept          OrderEvent = "accept"
	EventReject          OrderEvent = "reject"
	EventCancel          OrderEvent = "cancel"
	EventArrived         OrderEvent = "arrived"
	EventStartService    OrderEvent = "start_service"
	EventCompleteService OrderEvent = "complete_service"
)

// InvalidTransitionError reports an event applied from a status it is not
// legal in. Current is included so clients can resync their view.
type InvalidTransitionError struct {
	Current BookingStatus
	Event   OrderEvent
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot apply %s while booking is %s", e.Event, e.Current)
}

// transition is one row of the order state machine table
type transition struct {
	from  BookingStatus
	event OrderEvent
	actor OrderActor
	to    BookingStatus
}

// Legal transitions. Cancellation is the only path that skips states, and only
// from pending or confirmed.
var transitions = []transition{
	{BookingStatusPending, EventAccept, ActorTherapist, BookingStatusConfirmed},
	{BookingStatusPending, EventReject, ActorTherapist, BookingStatusCancelled},
	{BookingStatusPending, EventCancel, ActorCustomer, BookingStatusCancelled},
	{BookingStatusConfirmed, EventCancel, ActorCustomer, BookingStatusCancelled},
	{BookingStatusConfirmed, EventArrived, ActorTherapist, BookingStatusEnRoute},
	{BookingStatusConfirmed, EventStartService, ActorTherapist, BookingStatusInProgress},
	{BookingStatusEnRoute, EventStartService, ActorTherapist, BookingStatusInProgress},
	{BookingStatusInProgress, EventCompleteService, ActorTherapist, BookingStatusCompleted},
}

// NextStatus resolves the status a booking moves to when actor applies event
// from current. Returns an InvalidTransitionError when the combination is not
// in the table; the caller must leave the booking untouched in that case.
func NextStatus(current BookingStatus, event OrderEvent, actor OrderActor) (BookingStatus, error) {
	for _, t := range transitions {
		if t.from == current && t.event == event && t.actor == actor {
			return t.to, nil
		}
	}
	return current, &InvalidTransitionError{Current: current, Event: event}
}

// IsCancellable reports whether a customer may still cancel from this status
func (s BookingStatus) IsCancellable() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// IsTerminal reports whether no further transitions are possible
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled || s == BookingStatusRefunded
}

// Booking represents a single scheduled service engagement. Created atomically
// with its TimeSlot claim and paired Order; never physically deleted.
type Booking struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	BookingNo string `json:"booking_no" gorm:"size:50;uniqueIndex;not null"`

	UserID      uint `json:"user_id" gorm:"not null;index"`
	TherapistID uint `json:"therapist_id" gorm:"not null;index"`
	ServiceID   uint `json:"service_id" gorm:"not null;index"`
	AddressID   uint `json:"address_id" gorm:"not null"`

	BookingDate time.Time `json:"booking_date" gorm:"type:date;not null;index"`
	StartTime   string    `json:"start_time" gorm:"size:5;not null"` // "14:00"
	EndTime     string    `json:"end_time" gorm:"size:5;not null"`
	Duration    int       `json:"duration" gorm:"not null"` // minutes

	// Price breakdown. TotalPrice = max(0, ServicePrice - DiscountAmount -
	// CouponDeduction - PointsDeduction).
	ServicePrice    float64 `json:"service_price" gorm:"type:decimal(10,2);not null"`
	DiscountAmount  float64 `json:"discount_amount" gorm:"type:decimal(10,2);default:0"`
	CouponID        *uint   `json:"coupon_id"`
	CouponDeduction float64 `json:"coupon_deduction" gorm:"type:decimal(10,2);default:0"`
	PointsUsed      int     `json:"points_used" gorm:"default:0"`
	PointsDeduction float64 `json:"points_deduction" gorm:"type:decimal(10,2);default:0"`
	TotalPrice      float64 `json:"total_price" gorm:"type:decimal(10,2);not null"`

	Status BookingStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`

	UserNote      *string `json:"user_note" gorm:"type:text"`
	TherapistNote *string `json:"therapist_note" gorm:"type:text"`

	CancelReason *string    `json:"cancel_reason" gorm:"type:text"`
	CancelledBy  *string    `json:"cancelled_by" gorm:"size:20"` // customer/therapist
	CancelledAt  *time.Time `json:"cancelled_at"`

	TherapistArrivedAt *time.Time `json:"therapist_arrived_at"`
	ServiceStartedAt   *time.Time `json:"service_started_at"`
	ServiceCompletedAt *time.Time `json:"service_completed_at"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	User      User      `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Therapist Therapist `json:"therapist,omitempty" gorm:"foreignKey:TherapistID"`
	Service   Service   `json:"service,omitempty" gorm:"foreignKey:ServiceID"`
	Order     *Order    `json:"order,omitempty" gorm:"foreignKey:BookingID"`
}

// TableName specifies the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}
