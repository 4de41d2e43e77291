package services

import (
	"gorm.io/gorm"

	"massage-service-server/models"
)

// GormNotificationStore persists dispatch records and preferences via GORM.
type GormNotificationStore struct {
	db *gorm.DB
}

func NewGormNotificationStore(db *gorm.DB) *GormNotificationStore {
	return &GormNotificationStore{db: db}
}

// Settings returns the therapist's notification settings, creating the
// default row on first access.
func (s *GormNotificationStore) Settings(therapistID uint) (*models.NotificationSettings, error) {
	var settings models.NotificationSettings
	err := s.db.Where("therapist_id = ?", therapistID).First(&settings).Error
	if err == nil {
		return &settings, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	defaults := models.DefaultNotificationSettings(therapistID)
	if err := s.db.Create(defaults).Error; err != nil {
		return nil, err
	}
	return defaults, nil
}

// ActivePushToken returns the therapist's active device token, or nil when
// none is registered.
func (s *GormNotificationStore) ActivePushToken(therapistID uint) (*models.PushToken, error) {
	var token models.PushToken
	err := s.db.Where("therapist_id = ? AND is_active = ?", therapistID, true).First(&token).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (s *GormNotificationStore) SaveNotification(n *models.Notification) error {
	return s.db.Create(n).Error
}
