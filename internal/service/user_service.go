package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/editur/editur_server/config"
	"github.com/editur/editur_server/internal/model"
	"github.com/editur/editur_server/internal/model/dto"
	"github.com/editur/editur_server/internal/pkg/storage"
	"github.com/editur/editur_server/internal/repository"
)

var ErrSubscriptionNotFound = errors.New("No active subscription")

type UserService struct {
	userRepo  *repository.UserRepository
	subRepo   *repository.SubscriptionRepository
	store     storage.Storage
	uploadCfg config.UploadConfig
}

func NewUserService(userRepo *repository.UserRepository, subRepo *repository.SubscriptionRepository, store storage.Storage, uploadCfg config.UploadConfig) *UserService {
	return &UserService{
		userRepo:  userRepo,
		subRepo:   subRepo,
		store:     store,
		uploadCfg: uploadCfg,
	}
}

// GetProfile 获取用户详情，附带订阅用量
func (s *UserService) GetProfile(userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	sub, err := s.subRepo.GetByUserID(userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return buildUserInfo(user, sub), nil
}

// GetSubscription 当前用户的订阅和分钟数
func (s *UserService) GetSubscription(userID int64) (*dto.SubscriptionInfo, error) {
	sub, err := s.subRepo.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return buildSubscriptionInfo(sub), nil
}

// UpdateProfile 更新昵称和头像地址
func (s *UserService) UpdateProfile(userID int64, req *dto.UpdateProfileRequest) (*dto.UserInfo, error) {
	fields := map[string]interface{}{}
	if req.Name != nil {
		fields["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Image != nil {
		fields["image"] = strings.TrimSpace(*req.Image)
	}

	if len(fields) > 0 {
		if _, err := s.userRepo.GetByID(userID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrUserNotFound
			}
			return nil, err
		}
		if err := s.userRepo.UpdateFields(userID, fields); err != nil {
			return nil, err
		}
	}

	return s.GetProfile(userID)
}

// UploadAvatar 上传头像并更新用户的 image 字段
func (s *UserService) UploadAvatar(ctx context.Context, userID int64, asset *dto.BrandingAsset) (string, error) {
	if len(asset.Data) == 0 {
		return "", ErrAssetEmpty
	}
	if s.uploadCfg.MaxAssetSize > 0 && int64(len(asset.Data)) > s.uploadCfg.MaxAssetSize {
		return "", ErrAssetTooLarge
	}

	contentType := http.DetectContentType(asset.Data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: %s", ErrAssetType, contentType)
	}

	ext := strings.ToLower(filepath.Ext(asset.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("avatars/%d/%s%s", userID, uuid.New().String(), ext)

	obj, err := s.store.Put(ctx, key, asset.Data, contentType)
	if err != nil {
		return "", err
	}

	if err := s.userRepo.UpdateFields(userID, map[string]interface{}{"image": obj.URL}); err != nil {
		return "", err
	}
	return obj.URL, nil
}

func buildUserInfo(user *model.User, sub *model.Subscription) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:          user.ID,
		Email:       user.Email,
		Role:        user.Role,
		HasPassword: user.HasPassword(),
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}
	if user.Name != nil {
		info.Name = *user.Name
	}
	if user.Image != nil {
		info.Image = *user.Image
	}
	if sub != nil {
		info.Usage = buildSubscriptionInfo(sub)
	}
	return info
}

func buildSubscriptionInfo(sub *model.Subscription) *dto.SubscriptionInfo {
	info := &dto.SubscriptionInfo{
		Plan:             sub.Plan,
		Status:           sub.Status,
		MinutesAllowed:   sub.MinutesAllowed,
		MinutesUsed:      sub.MinutesUsed,
		MinutesRemaining: sub.MinutesRemaining(),
	}
	if sub.EndDate != nil {
		info.EndDate = sub.EndDate.Format(time.RFC3339)
	}
	return info
}
