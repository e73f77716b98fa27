package dto

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anoa.com/inventorybackend/internal/entity"
)

func TestFlatFromEntity(t *testing.T) {
	parent := entity.Category{ID: uuid.New(), Name: "Bakery"}
	creator := entity.User{ID: uuid.New(), FullName: "Jamie Doe"}
	imageURL := "https://cdn.example.com/categories/bread.webp"

	c := entity.Category{
		ID:           uuid.New(),
		Name:         "Bread",
		Description:  "Baked daily",
		ImageURL:     &imageURL,
		ParentID:     &parent.ID,
		Parent:       &parent,
		ExpiryDays:   2,
		DisplayOrder: 5,
		IsActive:     true,
		CreatedBy:    &creator,
		SubCategories: []entity.Category{
			{ID: uuid.New(), Name: "Sourdough"},
			{ID: uuid.New(), Name: "Rye"},
		},
	}

	resp := FlatFromEntity(&c)

	assert.Equal(t, c.ID, resp.ID)
	assert.Equal(t, "Bread", resp.Name)
	assert.Equal(t, "Baked daily", resp.Description)
	assert.Equal(t, &imageURL, resp.ImageURL)
	assert.Equal(t, 2, resp.ExpiryDays)
	assert.Equal(t, 5, resp.DisplayOrder)
	assert.True(t, resp.IsActive)

	require.NotNil(t, resp.ParentName)
	assert.Equal(t, "Bakery", *resp.ParentName)
	require.NotNil(t, resp.CreatedBy)
	assert.Equal(t, "Jamie Doe", *resp.CreatedBy)

	require.Len(t, resp.SubCategories, 2)
	assert.Equal(t, "Sourdough", resp.SubCategories[0].Name)
	assert.Equal(t, "Rye", resp.SubCategories[1].Name)
}

func TestFlatFromEntityWithoutRelations(t *testing.T) {
	c := entity.Category{ID: uuid.New(), Name: "Pantry", ExpiryDays: 3}

	resp := FlatFromEntity(&c)

	assert.Nil(t, resp.ParentID)
	assert.Nil(t, resp.ParentName)
	assert.Nil(t, resp.CreatedBy)
	assert.Nil(t, resp.ImageURL)
	assert.Empty(t, resp.SubCategories)
}

func TestTreeNodeFromEntityCopiesScalarsOnly(t *testing.T) {
	imageURL := "https://cdn.example.com/categories/dairy.webp"
	c := entity.Category{
		ID:       uuid.New(),
		Name:     "Dairy",
		ImageURL: &imageURL,
		SubCategories: []entity.Category{
			{ID: uuid.New(), Name: "Milk"},
		},
	}

	node := TreeNodeFromEntity(&c)

	assert.Equal(t, c.ID, node.ID)
	assert.Equal(t, "Dairy", node.Name)
	assert.Equal(t, &imageURL, node.ImageURL)
	assert.Empty(t, node.Children, "children are attached by the tree assembler")
}
