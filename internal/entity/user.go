package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Role struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

type User struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Email           string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone           string     `gorm:"size:15;uniqueIndex;not null" json:"phone"`
	PasswordHash    string     `gorm:"size:255;not null" json:"-"`
	FullName        string     `gorm:"size:100;not null" json:"full_name"`
	RoleID          *uint      `json:"role_id"`
	Role            Role       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"role"`
	IsActive        bool       `gorm:"default:true;index" json:"is_active"`
	IsEmailVerified bool       `gorm:"default:false" json:"is_email_verified"`
	IsPhoneVerified bool       `gorm:"default:false" json:"is_phone_verified"`
	ProfileImage    *string    `gorm:"type:text" json:"profile_image,omitempty"`
	Address         *string    `gorm:"type:text" json:"address,omitempty"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
