package models

import (
	"time"

	"gorm.io/gorm"
)

type UserRole string

const (
	RoleCustomer  UserRole = "customer"
	RoleTherapist UserRole = "therapist"
	RoleAdmin     UserRole = "admin"
)

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Nickname     string    `json:"nickname" gorm:"size:100"`
	PhoneNumber  string    `json:"phone_number" gorm:"size:20;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Hidden from JSON
	Role         UserRole  `json:"role" gorm:"type:varchar(20);not null;default:'customer';check:role IN ('customer','therapist','admin')"`
	Avatar       *string   `json:"avatar" gorm:"size:255"`
	Points       int       `json:"points" gorm:"default:0"` // 100 points = 1 currency unit
	IsActive     bool      `json:"is_active" gorm:"default:true"`
	CreatedAt    time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Bookings  []Booking `json:"bookings,omitempty" gorm:"foreignKey:UserID"`
	Addresses []Address `json:"addresses,omitempty" gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// BeforeCreate is a GORM hook that runs before creating a user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	return nil
}

// IsTherapist checks if the user is a therapist
func (u *User) IsTherapist() bool {
	return u.Role == RoleTherapist
}

// IsCustomer checks if the user is a customer
func (u *User) IsCustomer() bool {
	return u.Role == RoleCustomer
}

// Address represents a customer service address
type Address struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	UserID       uint           `json:"user_id" gorm:"not null;index"`
	ContactName  string         `json:"contact_name" gorm:"size:100;not null"`
	ContactPhone string         `json:"contact_phone" gorm:"size:20;not null"`
	Province     string         `json:"province" gorm:"size:100"`
	City         string         `json:"city" gorm:"size:100"`
	District     string         `json:"district" gorm:"size:100"`
	Street       string         `json:"street" gorm:"size:255"`
	Detail       string         `json:"detail" gorm:"size:255"`
	Latitude     *float64       `json:"latitude" gorm:"type:decimal(10,8)"`
	Longitude    *float64       `json:"longitude" gorm:"type:decimal(11,8)"`
	IsDefault    bool           `json:"is_default" gorm:"default:false"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`

	// Relationships
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

// FullAddress combines the address parts into a single display string
func (a *Address) FullAddress() string {
	full := a.Province + a.City + a.District + a.Street
	if a.Detail != "" {
		full += " " + a.Detail
	}
	return full
}
