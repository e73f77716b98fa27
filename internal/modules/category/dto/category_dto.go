package dto

import (
	"io"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
)

// CategoryForm is the multipart body of the create and update endpoints.
// parent_id is carried as a string and parsed in the handler.
type CategoryForm struct {
	Name         string                `form:"name" binding:"required,max=100"`
	Description  string                `form:"description"`
	ParentID     string                `form:"parent_id"`
	ExpiryDays   *int                  `form:"expiry_days" binding:"omitempty,min=0"`
	DisplayOrder *int                  `form:"display_order"`
	IsActive     *bool                 `form:"is_active"`
	Image        *multipart.FileHeader `form:"image"`
}

// ImageFile represents an uploaded image payload.
type ImageFile struct {
	Reader   io.Reader
	FileName string
}

// CategoryRequest is the service-level create/update input. Nil optional
// fields take the documented defaults (expiry 3, order 0, active true).
type CategoryRequest struct {
	Name         string
	Description  string
	ParentID     *uuid.UUID
	ExpiryDays   *int
	DisplayOrder *int
	IsActive     *bool
	Image        *ImageFile
}

type CategoryResponse struct {
	ID            uuid.UUID          `json:"id"`
	Name          string             `json:"name"`
	Description   string             `json:"description,omitempty"`
	ImageURL      *string            `json:"image_url,omitempty"`
	ParentID      *uuid.UUID         `json:"parent_id,omitempty"`
	ParentName    *string            `json:"parent_name,omitempty"`
	ExpiryDays    int                `json:"expiry_days"`
	DisplayOrder  int                `json:"display_order"`
	IsActive      bool               `json:"is_active"`
	CreatedBy     *string            `json:"created_by,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
	SubCategories []CategoryResponse `json:"sub_categories,omitempty"`
}

type CategoryTreeResponse struct {
	ID       uuid.UUID              `json:"id"`
	Name     string                 `json:"name"`
	ImageURL *string                `json:"image_url,omitempty"`
	Children []CategoryTreeResponse `json:"children,omitempty"`
}
