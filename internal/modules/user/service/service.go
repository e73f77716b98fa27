package user

import (
	"context"
	"log"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"anoa.com/inventorybackend/internal/entity"
	"anoa.com/inventorybackend/internal/modules/user/dto"
	"anoa.com/inventorybackend/internal/modules/user/repository"
	"anoa.com/inventorybackend/pkg/apperror"
	"anoa.com/inventorybackend/pkg/storage"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error)
	GetAllUsers(ctx context.Context) ([]dto.UserResponse, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error)
	GetActiveEmployees(ctx context.Context) ([]dto.UserResponse, error)
	UpdateUserStatus(ctx context.Context, id uuid.UUID, isActive bool) (*dto.UserResponse, error)
}

type userService struct {
	repo         repository.UserRepository
	imageStorage storage.ImageStorage
}

func NewUserService(repo repository.UserRepository, imageStorage storage.ImageStorage) UserService {
	return &userService{
		repo:         repo,
		imageStorage: imageStorage,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := dto.UserFromEntity(user)
	return &resp, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.findUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(req.FullName); name != "" {
		user.FullName = name
	}
	if req.Address != nil {
		user.Address = req.Address
	}

	if req.Avatar != nil {
		if user.ProfileImage != nil {
			if err := s.imageStorage.DeleteImage(ctx, *user.ProfileImage); err != nil {
				log.Printf("Failed to delete old avatar for user %s: %v", user.ID, err)
			}
		}
		url, err := s.imageStorage.UploadImage(ctx, req.Avatar.Reader, "avatars", req.Avatar.FileName)
		if err != nil {
			return nil, apperror.Storage("failed to upload avatar", err)
		}
		user.ProfileImage = &url
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := dto.UserFromEntity(user)
	return &resp, nil
}

func (s *userService) GetAllUsers(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return userViews(users), nil
}

func (s *userService) GetUserByID(ctx context.Context, id uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.UserFromEntity(user)
	return &resp, nil
}

func (s *userService) GetActiveEmployees(ctx context.Context) ([]dto.UserResponse, error) {
	users, err := s.repo.FindActiveByRole(ctx, entity.RoleEmployee)
	if err != nil {
		return nil, err
	}
	return userViews(users), nil
}

func (s *userService) UpdateUserStatus(ctx context.Context, id uuid.UUID, isActive bool) (*dto.UserResponse, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	user.IsActive = isActive
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := dto.UserFromEntity(user)
	return &resp, nil
}

func (s *userService) findUser(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	user, err := s.repo.FindByID(ctx, id.String())
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NotFound("user not found")
		}
		return nil, err
	}
	return user, nil
}

func userViews(users []*entity.User) []dto.UserResponse {
	views := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		views = append(views, dto.UserFromEntity(users[i]))
	}
	return views
}
