package entity

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anoa.com/inventorybackend/pkg/apperror"
)

func TestCategoryBeforeCreateAssignsID(t *testing.T) {
	c := Category{Name: "Bakery"}
	require.NoError(t, c.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, c.ID)

	// An explicit id is kept.
	fixed := uuid.New()
	c2 := Category{ID: fixed, Name: "Dairy"}
	require.NoError(t, c2.BeforeCreate(nil))
	assert.Equal(t, fixed, c2.ID)
}

func TestCategoryRejectsSelfParent(t *testing.T) {
	id := uuid.New()
	c := Category{ID: id, Name: "Loop", ParentID: &id}

	err := c.BeforeUpdate(nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrInvalidInput))
}

func TestCategoryIsRoot(t *testing.T) {
	root := Category{ID: uuid.New(), Name: "Pantry"}
	assert.True(t, root.IsRoot())

	child := Category{ID: uuid.New(), Name: "Spices", ParentID: &root.ID}
	assert.False(t, child.IsRoot())
}
