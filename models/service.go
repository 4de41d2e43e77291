package models

import (
	"time"

	"gorm.io/gorm"
)

// Service represents a bookable massage service
type Service struct {
	ID          uint           `json:"id" gorm:"primaryKey"`
	Name        string         `json:"name" gorm:"size:100;not null"`
	Description string         `json:"description" gorm:"type:text"`
	Image       *string        `json:"image" gorm:"size:500"`
	Duration    int            `json:"duration" gorm:"not null"` // minutes
	BasePrice   float64        `json:"base_price" gorm:"type:decimal(10,2);not null"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// TableName specifies the table name for the Service model
func (Service) TableName() string {
	return "services"
}
