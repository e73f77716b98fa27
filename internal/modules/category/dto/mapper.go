package dto

import (
	"anoa.com/inventorybackend/internal/entity"
)

// FlatFromEntity projects a category into its flat client view. The parent
// reference is followed exactly one level (name only, no ancestry chain) and
// only sub-categories that were eagerly loaded are mapped; it never triggers
// queries of its own.
func FlatFromEntity(c *entity.Category) CategoryResponse {
	resp := CategoryResponse{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		ImageURL:     c.ImageURL,
		ParentID:     c.ParentID,
		ExpiryDays:   c.ExpiryDays,
		DisplayOrder: c.DisplayOrder,
		IsActive:     c.IsActive,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}

	if c.Parent != nil {
		resp.ParentName = &c.Parent.Name
	}

	if c.CreatedBy != nil {
		resp.CreatedBy = &c.CreatedBy.FullName
	}

	for i := range c.SubCategories {
		resp.SubCategories = append(resp.SubCategories, FlatFromEntity(&c.SubCategories[i]))
	}

	return resp
}

// TreeNodeFromEntity copies the scalar fields of a tree node. Children are
// attached by the tree assembler, which owns traversal and cycle handling.
func TreeNodeFromEntity(c *entity.Category) CategoryTreeResponse {
	return CategoryTreeResponse{
		ID:       c.ID,
		Name:     c.Name,
		ImageURL: c.ImageURL,
	}
}
