package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	OtpPurposeLogin         = "login"
	OtpPurposeRegister      = "register"
	OtpPurposeResetPassword = "reset_password"
	OtpPurposeVerifyEmail   = "verify_email"
	OtpPurposeVerifyPhone   = "verify_phone"
)

// OtpLog stores issued one-time codes. Only the SHA-256 hash of a code is
// persisted; the plaintext exists solely in the email sent to the user.
type OtpLog struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Identifier string    `gorm:"size:100;index;not null" json:"identifier"`
	CodeHash   string    `gorm:"size:64;not null" json:"-"`
	Purpose    string    `gorm:"size:20;not null" json:"purpose"`
	Used       bool      `gorm:"default:false" json:"used"`
	Attempts   int       `gorm:"default:0" json:"attempts"`
	ExpiresAt  time.Time `gorm:"index;not null" json:"expires_at"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (o *OtpLog) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

func (o *OtpLog) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
