package models

import (
	"time"
)

type NotificationType string

const (
	NotificationNewOrder       NotificationType = "new_order"
	NotificationOrderCancelled NotificationType = "order_cancelled"
	NotificationOrderCompleted NotificationType = "order_completed"
	NotificationSystemMessage  NotificationType = "system_message"
	NotificationPaymentSuccess NotificationType = "payment_success"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "pending"
	NotificationStatusSent    NotificationStatus = "sent"
	NotificationStatusFailed  NotificationStatus = "failed"
	NotificationStatusRead    NotificationStatus = "read"
)

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityNormal NotificationPriority = "normal"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

// Delivery channels recorded in Notification.SentVia
const (
	ChannelWebsocket = "websocket"
	ChannelPush      = "push"
)

// Notification is the durable record of one dispatch attempt toward a
// therapist. One row is written per dispatch regardless of delivery outcome,
// except when the therapist has opted out of the category.
type Notification struct {
	ID          uint                 `json:"id" gorm:"primaryKey"`
	TherapistID uint                 `json:"therapist_id" gorm:"not null;index"`
	Type        NotificationType     `json:"type" gorm:"type:varchar(30);not null;index"`
	Priority    NotificationPriority `json:"priority" gorm:"type:varchar(10);default:'normal'"`

	Title string `json:"title" gorm:"size:100;not null"`
	Body  string `json:"body" gorm:"type:text;not null"`
	Data  string `json:"data" gorm:"type:text"` // JSON payload (order id, screen, etc.)

	Status       NotificationStatus `json:"status" gorm:"type:varchar(10);default:'pending';index"`
	SentVia      *string            `json:"sent_via" gorm:"size:30"` // comma list: websocket,push
	ErrorMessage *string            `json:"error_message" gorm:"type:text"`

	SentAt    *time.Time `json:"sent_at" gorm:"index"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at" gorm:"index"`

	// Relationships
	Therapist Therapist `json:"therapist,omitempty" gorm:"foreignKey:TherapistID"`
}

// TableName specifies the table name for the Notification model
func (Notification) TableName() string {
	return "notifications"
}

// PushToken stores a therapist's push-capable device token. One active token
// per therapist; re-registering from a new device replaces it.
type PushToken struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	TherapistID uint    `json:"therapist_id" gorm:"uniqueIndex;not null"`
	Token       string  `json:"token" gorm:"size:200;not null;index"`
	DeviceID    *string `json:"device_id" gorm:"size:100"`
	DeviceName  *string `json:"device_name" gorm:"size:100"`
	Platform    string  `json:"platform" gorm:"size:20;not null"` // ios/android/web
	AppVersion  *string `json:"app_version" gorm:"size:20"`
	IsActive    bool    `json:"is_active" gorm:"default:true"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the PushToken model
func (PushToken) TableName() string {
	return "push_tokens"
}

// NotificationSettings holds a therapist's notification preferences. Created
// lazily with defaults on first access.
type NotificationSettings struct {
	ID          uint `json:"id" gorm:"primaryKey"`
	TherapistID uint `json:"therapist_id" gorm:"uniqueIndex;not null"`

	// Global switches
	NotificationsEnabled bool `json:"notifications_enabled" gorm:"default:true"`
	SoundEnabled         bool `json:"sound_enabled" gorm:"default:true"`
	VibrationEnabled     bool `json:"vibration_enabled" gorm:"default:true"`

	// Per-category switches
	NewOrderEnabled       bool `json:"new_order_enabled" gorm:"default:true"`
	OrderCancelledEnabled bool `json:"order_cancelled_enabled" gorm:"default:true"`
	OrderCompletedEnabled bool `json:"order_completed_enabled" gorm:"default:true"`
	SystemMessageEnabled  bool `json:"system_message_enabled" gorm:"default:true"`

	// New-order channel customization
	NewOrderSound            *string `json:"new_order_sound" gorm:"size:50;default:'default'"`
	NewOrderVibrationPattern *string `json:"new_order_vibration_pattern" gorm:"size:100;default:'default'"`

	// Do-not-disturb windows, JSON:
	// [{"start": "22:00", "end": "08:00", "days": [0,1,2,3,4,5,6]}]
	DoNotDisturbPeriods *string `json:"do_not_disturb_periods" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the NotificationSettings model
func (NotificationSettings) TableName() string {
	return "therapist_notification_settings"
}

// DefaultNotificationSettings returns the settings applied when a therapist
// has never touched their preferences.
func DefaultNotificationSettings(therapistID uint) *NotificationSettings {
	defaultSound := "default"
	defaultPattern := "default"
	return &NotificationSettings{
		TherapistID:              therapistID,
		NotificationsEnabled:     true,
		SoundEnabled:             true,
		VibrationEnabled:         true,
		NewOrderEnabled:          true,
		OrderCancelledEnabled:    true,
		OrderCompletedEnabled:    true,
		SystemMessageEnabled:     true,
		NewOrderSound:            &defaultSound,
		NewOrderVibrationPattern: &defaultPattern,
	}
}

// CategoryEnabled reports whether the given notification type passes this
// settings record. Unknown types default to enabled.
func (s *NotificationSettings) CategoryEnabled(t NotificationType) bool {
	if !s.NotificationsEnabled {
		return false
	}
	switch t {
	case NotificationNewOrder:
		return s.NewOrderEnabled
	case NotificationOrderCancelled:
		return s.OrderCancelledEnabled
	case NotificationOrderCompleted:
		return s.OrderCompletedEnabled
	case NotificationSystemMessage:
		return s.SystemMessageEnabled
	default:
		return true
	}
}
