package entity

import (
	"time"

	"anoa.com/inventorybackend/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category is a node in the product category forest. The parent link is the
// only stored relationship; the children view is always derived by query so
// no cyclic object graph is ever materialized in memory.
type Category struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name         string     `gorm:"size:100;not null;index:idx_categories_name_parent" json:"name"`
	Description  string     `gorm:"type:text" json:"description"`
	ImageURL     *string    `gorm:"type:text" json:"image_url,omitempty"`
	ParentID     *uuid.UUID `gorm:"type:uuid;index;index:idx_categories_name_parent" json:"parent_id,omitempty"`
	Parent       *Category  `gorm:"foreignKey:ParentID" json:"-"`
	ExpiryDays   int        `gorm:"default:3" json:"expiry_days"`
	DisplayOrder int        `gorm:"default:0;index" json:"display_order"`
	IsActive     bool       `gorm:"default:true;index" json:"is_active"`
	CreatedByID  *uuid.UUID `gorm:"type:uuid" json:"created_by_id,omitempty"`
	CreatedBy    *User      `gorm:"foreignKey:CreatedByID" json:"-"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Loaded only when explicitly preloaded; never followed recursively
	// by gorm.
	SubCategories []Category `gorm:"foreignKey:ParentID" json:"-"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return c.validateParent()
}

func (c *Category) BeforeUpdate(tx *gorm.DB) error {
	return c.validateParent()
}

// validateParent rejects self-parenting at the persistence boundary as a
// last line of defense behind the service-level check.
func (c *Category) validateParent() error {
	if c.ParentID != nil && *c.ParentID == c.ID {
		return apperror.InvalidInput("category cannot be its own parent")
	}
	return nil
}

// IsRoot reports whether the category is a main (top-level) category.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
