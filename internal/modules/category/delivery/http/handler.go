package handler

import (
	"net/http"
	"strconv"

	"anoa.com/inventorybackend/internal/modules/category/dto"
	category "anoa.com/inventorybackend/internal/modules/category/service"
	"anoa.com/inventorybackend/pkg/response"
	"anoa.com/inventorybackend/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoryHandler struct {
	service category.CategoryService
}

func NewCategoryHandler(service category.CategoryService) *CategoryHandler {
	return &CategoryHandler{service: service}
}

func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	req, ok := bindCategoryRequest(c)
	if !ok {
		return
	}

	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), userID, *req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

func (h *CategoryHandler) GetAllCategories(c *gin.Context) {
	categories, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) GetMainCategories(c *gin.Context) {
	categories, err := h.service.ListMain(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) GetCategoryTree(c *gin.Context) {
	tree, err := h.service.Tree(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, tree)
}

func (h *CategoryHandler) GetCategoryByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	found, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, found)
}

func (h *CategoryHandler) GetSubcategories(c *gin.Context) {
	parentID, err := uuid.Parse(c.Param("parentId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parent category id"})
		return
	}

	categories, err := h.service.ListChildren(c.Request.Context(), parentID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) SearchCategories(c *gin.Context) {
	keyword := c.Query("keyword")

	categories, err := h.service.Search(c.Request.Context(), keyword)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

func (h *CategoryHandler) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	req, ok := bindCategoryRequest(c)
	if !ok {
		return
	}

	updated, err := h.service.Update(c.Request.Context(), id, *req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *CategoryHandler) ToggleCategoryStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	isActive, err := strconv.ParseBool(c.Query("isActive"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "isActive must be true or false"})
		return
	}

	updated, err := h.service.ToggleStatus(c.Request.Context(), id, isActive)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, updated)
}

func (h *CategoryHandler) DeleteCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// bindCategoryRequest parses the multipart form shared by create and update.
// It writes the error response itself when binding fails.
func bindCategoryRequest(c *gin.Context) (*dto.CategoryRequest, bool) {
	var form dto.CategoryForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return nil, false
	}

	req := dto.CategoryRequest{
		Name:         form.Name,
		Description:  form.Description,
		ExpiryDays:   form.ExpiryDays,
		DisplayOrder: form.DisplayOrder,
		IsActive:     form.IsActive,
	}

	if form.ParentID != "" {
		parentID, err := uuid.Parse(form.ParentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid parent category id"})
			return nil, false
		}
		req.ParentID = &parentID
	}

	if form.Image != nil {
		file, err := form.Image.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded image"})
			return nil, false
		}
		// gin closes multipart temp files when the request ends.
		req.Image = &dto.ImageFile{Reader: file, FileName: form.Image.Filename}
	}

	return &req, true
}
