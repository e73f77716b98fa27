package user

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"anoa.com/inventorybackend/internal/entity"
	"anoa.com/inventorybackend/internal/modules/user/dto"
	"anoa.com/inventorybackend/pkg/apperror"
)

type fakeAvatarStorage struct {
	deleted []string
}

func (s *fakeAvatarStorage) UploadImage(ctx context.Context, file io.Reader, folder, fileName string) (string, error) {
	return fmt.Sprintf("https://cdn.example.com/%s/%s", folder, fileName), nil
}

func (s *fakeAvatarStorage) DeleteImage(ctx context.Context, fileURL string) error {
	s.deleted = append(s.deleted, fileURL)
	return nil
}

func TestUpdateProfile(t *testing.T) {
	repo := newFakeUserRepo()
	images := &fakeAvatarStorage{}
	svc := NewUserService(repo, images)
	seeded := seedVerifiedUser(t, repo, "supersecret")

	t.Run("name and address", func(t *testing.T) {
		address := "12 Warehouse Lane"
		updated, err := svc.UpdateProfile(context.Background(), seeded.ID, &dto.UpdateProfileRequest{
			FullName: "  Renamed Worker  ",
			Address:  &address,
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed Worker", updated.FullName)
		require.NotNil(t, updated.Address)
		assert.Equal(t, address, *updated.Address)
	})

	t.Run("blank name leaves current name", func(t *testing.T) {
		updated, err := svc.UpdateProfile(context.Background(), seeded.ID, &dto.UpdateProfileRequest{
			FullName: "   ",
		})
		require.NoError(t, err)
		assert.Equal(t, "Renamed Worker", updated.FullName)
	})

	t.Run("avatar upload replaces old image", func(t *testing.T) {
		first, err := svc.UpdateProfile(context.Background(), seeded.ID, &dto.UpdateProfileRequest{
			Avatar: &dto.AvatarFile{Reader: strings.NewReader("v1"), FileName: "me.png"},
		})
		require.NoError(t, err)
		require.NotNil(t, first.ProfileImage)

		second, err := svc.UpdateProfile(context.Background(), seeded.ID, &dto.UpdateProfileRequest{
			Avatar: &dto.AvatarFile{Reader: strings.NewReader("v2"), FileName: "me2.png"},
		})
		require.NoError(t, err)
		require.NotNil(t, second.ProfileImage)
		assert.NotEqual(t, *first.ProfileImage, *second.ProfileImage)
		assert.Contains(t, images.deleted, *first.ProfileImage)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := svc.UpdateProfile(context.Background(), uuid.New(), &dto.UpdateProfileRequest{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperror.ErrNotFound))
	})
}

func TestGetActiveEmployees(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, &fakeAvatarStorage{})
	seeded := seedVerifiedUser(t, repo, "supersecret")

	adminRole := repo.roles[entity.RoleAdmin]
	require.NoError(t, repo.Create(context.Background(), &entity.User{
		Email:    "boss@example.com",
		Phone:    "087777777777",
		FullName: "Boss",
		RoleID:   &adminRole.ID,
		Role:     *adminRole,
		IsActive: true,
	}))

	employees, err := svc.GetActiveEmployees(context.Background())
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, seeded.Email, employees[0].Email)
}

func TestUpdateUserStatus(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo, &fakeAvatarStorage{})
	seeded := seedVerifiedUser(t, repo, "supersecret")

	updated, err := svc.UpdateUserStatus(context.Background(), seeded.ID, false)
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	employees, err := svc.GetActiveEmployees(context.Background())
	require.NoError(t, err)
	assert.Empty(t, employees)
}
