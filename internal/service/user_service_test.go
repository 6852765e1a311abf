package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/editur/editur_server/internal/model"
	"github.com/editur/editur_server/internal/model/dto"
	"github.com/editur/editur_server/internal/pkg/storage"
	"github.com/editur/editur_server/internal/repository"
	"github.com/editur/editur_server/internal/testutil"
)

func setupUserService(t *testing.T) (*UserService, *gorm.DB) {
	t.Helper()

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.CleanupTestDB(t, db) })

	store, err := storage.NewLocal(t.TempDir(), "/uploads")
	require.NoError(t, err)

	service := NewUserService(
		repository.NewUserRepository(db),
		repository.NewSubscriptionRepository(db),
		store,
		testUploadConfig(),
	)
	return service, db
}

func TestUserService_GetProfile_Success(t *testing.T) {
	service, db := setupUserService(t)

	user := testutil.TestUser(t, db, testutil.WithEmail("profile@example.com"))
	plan := testutil.TestPlan(t, db, "pro")
	testutil.TestSubscription(t, db, user.ID, plan, 45)

	profile, err := service.GetProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, profile.ID)
	assert.Equal(t, "profile@example.com", profile.Email)
	assert.True(t, profile.HasPassword)

	require.NotNil(t, profile.Usage)
	assert.Equal(t, "pro", profile.Usage.Plan)
	assert.Equal(t, 120, profile.Usage.MinutesAllowed)
	assert.Equal(t, 45, profile.Usage.MinutesUsed)
	assert.Equal(t, 75, profile.Usage.MinutesRemaining)
}

func TestUserService_GetProfile_WithoutSubscription(t *testing.T) {
	service, db := setupUserService(t)
	user := testutil.TestUser(t, db, testutil.WithoutPassword())

	profile, err := service.GetProfile(user.ID)
	require.NoError(t, err)
	assert.False(t, profile.HasPassword)
	assert.Nil(t, profile.Usage)
}

func TestUserService_GetProfile_NotFound(t *testing.T) {
	service, _ := setupUserService(t)

	_, err := service.GetProfile(99999)
	assert.Equal(t, ErrUserNotFound, err)
}

func TestUserService_GetSubscription(t *testing.T) {
	service, db := setupUserService(t)
	user := testutil.TestUser(t, db)

	_, err := service.GetSubscription(user.ID)
	assert.Equal(t, ErrSubscriptionNotFound, err)

	// 超额使用时剩余分钟不为负
	testutil.TestSubscription(t, db, user.ID, nil, 50)
	sub, err := service.GetSubscription(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "free", sub.Plan)
	assert.Equal(t, 30, sub.MinutesAllowed)
	assert.Equal(t, 0, sub.MinutesRemaining)
}

func TestUserService_UpdateProfile_Success(t *testing.T) {
	service, db := setupUserService(t)
	user := testutil.TestUser(t, db)

	name := "  New Name "
	image := "https://example.com/avatar.jpg"
	profile, err := service.UpdateProfile(user.ID, &dto.UpdateProfileRequest{Name: &name, Image: &image})
	require.NoError(t, err)
	assert.Equal(t, "New Name", profile.Name)
	assert.Equal(t, image, profile.Image)
}

func TestUserService_UpdateProfile_NameOnly(t *testing.T) {
	service, db := setupUserService(t)
	image := "https://example.com/old.jpg"
	user := testutil.TestUser(t, db, func(u *model.User) { u.Image = &image })

	name := "Renamed"
	profile, err := service.UpdateProfile(user.ID, &dto.UpdateProfileRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", profile.Name)
	assert.Equal(t, image, profile.Image)
}

func TestUserService_UpdateProfile_NotFound(t *testing.T) {
	service, _ := setupUserService(t)

	name := "ghost"
	_, err := service.UpdateProfile(99999, &dto.UpdateProfileRequest{Name: &name})
	assert.Equal(t, ErrUserNotFound, err)
}

func TestUserService_UploadAvatar(t *testing.T) {
	service, db := setupUserService(t)
	user := testutil.TestUser(t, db)

	url, err := service.UploadAvatar(context.Background(), user.ID, &dto.BrandingAsset{
		Filename: "me.PNG",
		Data:     pngHeader,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/avatars/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	updated, err := repository.NewUserRepository(db).GetByID(user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.Image)
	assert.Equal(t, url, *updated.Image)
}

func TestUserService_UploadAvatar_Rejected(t *testing.T) {
	service, db := setupUserService(t)
	user := testutil.TestUser(t, db)
	ctx := context.Background()

	_, err := service.UploadAvatar(ctx, user.ID, &dto.BrandingAsset{Filename: "empty.png"})
	assert.ErrorIs(t, err, ErrAssetEmpty)

	_, err = service.UploadAvatar(ctx, user.ID, &dto.BrandingAsset{Filename: "notes.png", Data: []byte("plain text")})
	assert.ErrorIs(t, err, ErrAssetType)

	big := append([]byte{}, pngHeader...)
	big = append(big, make([]byte, 2048)...)
	_, err = service.UploadAvatar(ctx, user.ID, &dto.BrandingAsset{Filename: "big.png", Data: big})
	assert.ErrorIs(t, err, ErrAssetTooLarge)
}
