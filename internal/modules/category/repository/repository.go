package repository

import (
	"context"

	"anoa.com/inventorybackend/internal/entity"
	"anoa.com/inventorybackend/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoryRepository interface {
	// Create inserts the category after re-checking sibling-name uniqueness
	// inside one transaction. Returns a conflict error on a duplicate.
	Create(ctx context.Context, category *entity.Category) error
	// Update saves the category after re-checking sibling-name uniqueness
	// against every other record inside one transaction.
	Update(ctx context.Context, category *entity.Category) error
	SetActive(ctx context.Context, id uuid.UUID, isActive bool) error
	// Delete removes the category, rejecting inside the transaction when any
	// child still references it.
	Delete(ctx context.Context, id uuid.UUID) error

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Category, error)
	FindActiveOrdered(ctx context.Context) ([]*entity.Category, error)
	FindActiveMain(ctx context.Context) ([]*entity.Category, error)
	FindActiveByParent(ctx context.Context, parentID uuid.UUID) ([]*entity.Category, error)
	SearchActive(ctx context.Context, keyword string) ([]*entity.Category, error)
	NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
	CountChildren(ctx context.Context, id uuid.UUID) (int64, error)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

// siblingQuery scopes to categories named name under parentID, where a nil
// parentID means the root bucket.
func siblingQuery(tx *gorm.DB, name string, parentID *uuid.UUID) *gorm.DB {
	q := tx.Model(&entity.Category{}).Where("name = ?", name)
	if parentID == nil {
		return q.Where("parent_id IS NULL")
	}
	return q.Where("parent_id = ?", *parentID)
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := siblingQuery(tx, category.Name, category.ParentID).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperror.Conflict("category with this name already exists")
		}

		return tx.Omit(clause.Associations).Create(category).Error
	})
}

func (r *categoryRepository) Update(ctx context.Context, category *entity.Category) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := siblingQuery(tx, category.Name, category.ParentID).
			Where("id <> ?", category.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apperror.Conflict("category with this name already exists")
		}

		return tx.Omit(clause.Associations).Save(category).Error
	})
}

func (r *categoryRepository) SetActive(ctx context.Context, id uuid.UUID, isActive bool) error {
	return r.db.WithContext(ctx).
		Model(&entity.Category{}).
		Where("id = ?", id).
		Update("is_active", isActive).Error
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var children int64
		if err := tx.Model(&entity.Category{}).
			Where("parent_id = ?", id).
			Count(&children).Error; err != nil {
			return err
		}
		if children > 0 {
			return apperror.Conflict("cannot delete category with subcategories")
		}

		return tx.Delete(&entity.Category{}, "id = ?", id).Error
	})
}

func (r *categoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Category, error) {
	var category entity.Category
	if err := r.db.WithContext(ctx).
		Preload("Parent").
		Preload("CreatedBy").
		Preload("SubCategories", func(db *gorm.DB) *gorm.DB {
			return db.Where("is_active = ?", true).Order("display_order")
		}).
		First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entity.Category, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var categories []*entity.Category
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("display_order").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindActiveOrdered(ctx context.Context) ([]*entity.Category, error) {
	var categories []*entity.Category
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("display_order").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindActiveMain(ctx context.Context) ([]*entity.Category, error) {
	var categories []*entity.Category
	if err := r.db.WithContext(ctx).
		Where("parent_id IS NULL AND is_active = ?", true).
		Order("display_order").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) FindActiveByParent(ctx context.Context, parentID uuid.UUID) ([]*entity.Category, error) {
	var categories []*entity.Category
	if err := r.db.WithContext(ctx).
		Where("parent_id = ? AND is_active = ?", parentID, true).
		Order("display_order").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) SearchActive(ctx context.Context, keyword string) ([]*entity.Category, error) {
	var categories []*entity.Category
	if err := r.db.WithContext(ctx).
		Where("name ILIKE ? AND is_active = ?", "%"+keyword+"%", true).
		Order("display_order").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	var rows []struct {
		ID   uuid.UUID
		Name string
	}
	if err := r.db.WithContext(ctx).
		Model(&entity.Category{}).
		Select("id", "name").
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		names[row.ID] = row.Name
	}
	return names, nil
}

func (r *categoryRepository) CountChildren(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entity.Category{}).
		Where("parent_id = ?", id).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
