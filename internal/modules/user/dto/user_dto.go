package dto

import (
	"io"
	"mime/multipart"
	"time"

	"anoa.com/inventorybackend/internal/entity"
	"github.com/google/uuid"
)

// AvatarFile represents an uploaded profile image payload.
type AvatarFile struct {
	Reader   io.Reader
	FileName string
}

// UpdateProfileForm is the multipart body of the profile update endpoint.
type UpdateProfileForm struct {
	FullName string                `form:"full_name" binding:"omitempty,max=100"`
	Address  *string               `form:"address"`
	Avatar   *multipart.FileHeader `form:"avatar"`
}

// UpdateProfileRequest is the service-level profile update input.
type UpdateProfileRequest struct {
	FullName string
	Address  *string
	Avatar   *AvatarFile
}

type UserResponse struct {
	ID              uuid.UUID  `json:"id"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	FullName        string     `json:"full_name"`
	Role            string     `json:"role"`
	IsActive        bool       `json:"is_active"`
	IsEmailVerified bool       `json:"is_email_verified"`
	IsPhoneVerified bool       `json:"is_phone_verified"`
	ProfileImage    *string    `json:"profile_image,omitempty"`
	Address         *string    `json:"address,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	LastLoginAt     *time.Time `json:"last_login_at,omitempty"`
}

func UserFromEntity(u *entity.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		Phone:           u.Phone,
		FullName:        u.FullName,
		Role:            u.Role.Name,
		IsActive:        u.IsActive,
		IsEmailVerified: u.IsEmailVerified,
		IsPhoneVerified: u.IsPhoneVerified,
		ProfileImage:    u.ProfileImage,
		Address:         u.Address,
		CreatedAt:       u.CreatedAt,
		LastLoginAt:     u.LastLoginAt,
	}
}
