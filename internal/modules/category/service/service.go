package category

import (
	"context"
	"errors"
	"log"
	"strings"

	"anoa.com/inventorybackend/internal/entity"
	"anoa.com/inventorybackend/internal/modules/category/dto"
	"anoa.com/inventorybackend/internal/modules/category/repository"
	search "anoa.com/inventorybackend/internal/modules/search/service"
	"anoa.com/inventorybackend/pkg/apperror"
	"anoa.com/inventorybackend/pkg/storage"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"gorm.io/gorm"
)

const imageFolder = "categories"

type CategoryService interface {
	Create(ctx context.Context, actorID uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error)
	ListAll(ctx context.Context) ([]dto.CategoryResponse, error)
	ListMain(ctx context.Context) ([]dto.CategoryResponse, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]dto.CategoryResponse, error)
	Search(ctx context.Context, keyword string) ([]dto.CategoryResponse, error)
	Tree(ctx context.Context) ([]dto.CategoryTreeResponse, error)
	Update(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error)
	ToggleStatus(ctx context.Context, id uuid.UUID, isActive bool) (*dto.CategoryResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type categoryService struct {
	repo         repository.CategoryRepository
	imageStorage storage.ImageStorage
	index        search.CategoryIndex
	sanitizer    *bluemonday.Policy
}

func NewCategoryService(repo repository.CategoryRepository, imageStorage storage.ImageStorage, index search.CategoryIndex) CategoryService {
	return &categoryService{
		repo:         repo,
		imageStorage: imageStorage,
		index:        index,
		sanitizer:    bluemonday.StrictPolicy(),
	}
}

func (s *categoryService) Create(ctx context.Context, actorID uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.InvalidInput("category name is required")
	}

	if req.ParentID != nil {
		if _, err := s.findCategory(ctx, *req.ParentID, "parent category not found"); err != nil {
			return nil, err
		}
	}

	// Upload before constructing the record so a storage failure never
	// leaves a partial category behind.
	var imageURL *string
	if req.Image != nil {
		url, err := s.imageStorage.UploadImage(ctx, req.Image.Reader, imageFolder, req.Image.FileName)
		if err != nil {
			return nil, apperror.Storage("failed to upload category image", err)
		}
		imageURL = &url
	}

	category := &entity.Category{
		Name:         name,
		Description:  s.sanitizer.Sanitize(req.Description),
		ImageURL:     imageURL,
		ParentID:     req.ParentID,
		ExpiryDays:   valueOrDefault(req.ExpiryDays, 3),
		DisplayOrder: valueOrDefault(req.DisplayOrder, 0),
		IsActive:     req.IsActive == nil || *req.IsActive,
		CreatedByID:  &actorID,
	}

	if err := s.repo.Create(ctx, category); err != nil {
		return nil, err
	}

	s.reindex(category)

	return s.GetByID(ctx, category.ID)
}

func (s *categoryService) GetByID(ctx context.Context, id uuid.UUID) (*dto.CategoryResponse, error) {
	category, err := s.findCategory(ctx, id, "category not found")
	if err != nil {
		return nil, err
	}

	resp := dto.FlatFromEntity(category)
	return &resp, nil
}

func (s *categoryService) ListAll(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.FindActiveOrdered(ctx)
	if err != nil {
		return nil, err
	}
	return s.flatViews(ctx, categories)
}

func (s *categoryService) ListMain(ctx context.Context) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.FindActiveMain(ctx)
	if err != nil {
		return nil, err
	}
	return s.flatViews(ctx, categories)
}

func (s *categoryService) ListChildren(ctx context.Context, parentID uuid.UUID) ([]dto.CategoryResponse, error) {
	categories, err := s.repo.FindActiveByParent(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return s.flatViews(ctx, categories)
}

func (s *categoryService) Search(ctx context.Context, keyword string) ([]dto.CategoryResponse, error) {
	if s.index != nil {
		ids, err := s.index.SearchCategories(keyword)
		if err == nil {
			categories, err := s.repo.FindByIDs(ctx, ids)
			if err != nil {
				return nil, err
			}
			return s.flatViews(ctx, filterByName(categories, keyword))
		}
		// The store remains the source of truth when the index is down.
		log.Printf("Category index search failed, falling back to store: %v", err)
	}

	categories, err := s.repo.SearchActive(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return s.flatViews(ctx, categories)
}

// Tree assembles the active category forest from a single ordered query.
// Children are derived through an id-keyed index, never by following live
// object pointers, and a visited set makes traversal terminate even when
// stored data violates acyclicity.
func (s *categoryService) Tree(ctx context.Context) ([]dto.CategoryTreeResponse, error) {
	all, err := s.repo.FindActiveOrdered(ctx)
	if err != nil {
		return nil, err
	}

	byParent := make(map[uuid.UUID][]*entity.Category)
	var roots []*entity.Category
	for _, c := range all {
		if c.ParentID == nil {
			roots = append(roots, c)
			continue
		}
		byParent[*c.ParentID] = append(byParent[*c.ParentID], c)
	}

	visited := make(map[uuid.UUID]bool)

	var build func(c *entity.Category) *dto.CategoryTreeResponse
	build = func(c *entity.Category) *dto.CategoryTreeResponse {
		if visited[c.ID] {
			// Data-integrity fault: a parent chain loops back on itself.
			log.Printf("Category tree integrity fault: %s revisited, skipping cycle", c.ID)
			return nil
		}
		visited[c.ID] = true

		node := dto.TreeNodeFromEntity(c)
		for _, child := range byParent[c.ID] {
			if childNode := build(child); childNode != nil {
				node.Children = append(node.Children, *childNode)
			}
		}
		return &node
	}

	tree := make([]dto.CategoryTreeResponse, 0, len(roots))
	for _, root := range roots {
		if node := build(root); node != nil {
			tree = append(tree, *node)
		}
	}
	return tree, nil
}

func (s *categoryService) Update(ctx context.Context, id uuid.UUID, req dto.CategoryRequest) (*dto.CategoryResponse, error) {
	category, err := s.findCategory(ctx, id, "category not found")
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperror.InvalidInput("category name is required")
	}

	if req.ParentID != nil {
		if *req.ParentID == id {
			return nil, apperror.InvalidInput("category cannot be its own parent")
		}
		if _, err := s.findCategory(ctx, *req.ParentID, "parent category not found"); err != nil {
			return nil, err
		}
	}

	if req.Image != nil {
		// Old image removal is best-effort; a dangling blob is preferable
		// to a failed update.
		if category.ImageURL != nil {
			if err := s.imageStorage.DeleteImage(ctx, *category.ImageURL); err != nil {
				log.Printf("Failed to delete old image for category %s: %v", id, err)
			}
		}
		url, err := s.imageStorage.UploadImage(ctx, req.Image.Reader, imageFolder, req.Image.FileName)
		if err != nil {
			return nil, apperror.Storage("failed to upload category image", err)
		}
		category.ImageURL = &url
	}

	category.Name = name
	category.Description = s.sanitizer.Sanitize(req.Description)
	category.ParentID = req.ParentID
	category.ExpiryDays = valueOrDefault(req.ExpiryDays, 3)
	category.DisplayOrder = valueOrDefault(req.DisplayOrder, 0)
	category.IsActive = req.IsActive == nil || *req.IsActive

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, err
	}

	s.reindex(category)

	return s.GetByID(ctx, id)
}

func (s *categoryService) ToggleStatus(ctx context.Context, id uuid.UUID, isActive bool) (*dto.CategoryResponse, error) {
	category, err := s.findCategory(ctx, id, "category not found")
	if err != nil {
		return nil, err
	}

	if err := s.repo.SetActive(ctx, id, isActive); err != nil {
		return nil, err
	}

	category.IsActive = isActive
	s.reindex(category)

	return s.GetByID(ctx, id)
}

func (s *categoryService) Delete(ctx context.Context, id uuid.UUID) error {
	category, err := s.findCategory(ctx, id, "category not found")
	if err != nil {
		return err
	}

	children, err := s.repo.CountChildren(ctx, id)
	if err != nil {
		return err
	}
	if children > 0 {
		return apperror.Conflict("cannot delete category with subcategories")
	}

	if category.ImageURL != nil {
		if err := s.imageStorage.DeleteImage(ctx, *category.ImageURL); err != nil {
			log.Printf("Failed to delete image for category %s: %v", id, err)
		}
	}

	// The repository re-checks for children inside the delete transaction.
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if s.index != nil {
		if err := s.index.DeleteCategory(id.String()); err != nil {
			log.Printf("Failed to remove category %s from search index: %v", id, err)
		}
	}

	return nil
}

func (s *categoryService) findCategory(ctx context.Context, id uuid.UUID, missing string) (*entity.Category, error) {
	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound(missing)
		}
		return nil, err
	}
	return category, nil
}

// flatViews maps categories to flat views with each parent's name resolved
// exactly one level through a single batched lookup.
func (s *categoryService) flatViews(ctx context.Context, categories []*entity.Category) ([]dto.CategoryResponse, error) {
	parentIDs := make([]uuid.UUID, 0)
	seen := make(map[uuid.UUID]bool)
	for _, c := range categories {
		if c.ParentID != nil && !seen[*c.ParentID] {
			seen[*c.ParentID] = true
			parentIDs = append(parentIDs, *c.ParentID)
		}
	}

	names, err := s.repo.NamesByIDs(ctx, parentIDs)
	if err != nil {
		return nil, err
	}

	views := make([]dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		view := dto.FlatFromEntity(c)
		if c.ParentID != nil {
			if name, ok := names[*c.ParentID]; ok {
				view.ParentName = &name
			}
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *categoryService) reindex(category *entity.Category) {
	if s.index == nil {
		return
	}
	if err := s.index.IndexCategory(category); err != nil {
		log.Printf("Failed to index category %s: %v", category.ID, err)
	}
}

// filterByName keeps search on its name-substring contract even when the
// index matched a hit on some other field.
func filterByName(categories []*entity.Category, keyword string) []*entity.Category {
	needle := strings.ToLower(keyword)
	out := make([]*entity.Category, 0, len(categories))
	for _, c := range categories {
		if strings.Contains(strings.ToLower(c.Name), needle) {
			out = append(out, c)
		}
	}
	return out
}

func valueOrDefault(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
