package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"anoa.com/inventorybackend/internal/modules/user/dto"
	user "anoa.com/inventorybackend/internal/modules/user/service"
	"anoa.com/inventorybackend/pkg/apperror"
	"anoa.com/inventorybackend/pkg/response"
	"anoa.com/inventorybackend/pkg/validator"
)

type UserHandler struct {
	service user.UserService
}

func NewUserHandler(service user.UserService) *UserHandler {
	return &UserHandler{service: service}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var form dto.UpdateProfileForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	req := dto.UpdateProfileRequest{
		FullName: form.FullName,
		Address:  form.Address,
	}
	if form.Avatar != nil {
		file, err := form.Avatar.Open()
		if err != nil {
			response.ResponseError(c, apperror.InvalidInput("failed to read avatar file"))
			return
		}
		defer file.Close()
		req.Avatar = &dto.AvatarFile{Reader: file, FileName: form.Avatar.Filename}
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.service.GetAllUsers(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUserByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.InvalidInput("invalid user id"))
		return
	}

	user, err := h.service.GetUserByID(c.Request.Context(), id)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetActiveEmployees(c *gin.Context) {
	users, err := h.service.GetActiveEmployees(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) UpdateUserStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.ResponseError(c, apperror.InvalidInput("invalid user id"))
		return
	}

	isActive, err := strconv.ParseBool(c.Query("isActive"))
	if err != nil {
		response.ResponseError(c, apperror.InvalidInput("isActive must be true or false"))
		return
	}

	user, err := h.service.UpdateUserStatus(c.Request.Context(), id, isActive)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
