package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/editur/editur_server/config"
	"github.com/editur/editur_server/internal/model"
	"github.com/editur/editur_server/internal/model/dto"
	"github.com/editur/editur_server/internal/pkg/cache"
	"github.com/editur/editur_server/internal/pkg/storage"
	"github.com/editur/editur_server/internal/repository"
)

const (
	AssetLogo    = "logo"
	AssetFavicon = "favicon"
)

var (
	ErrAssetTooLarge   = errors.New("file is too large")
	ErrAssetType       = errors.New("file type is not allowed")
	ErrAssetEmpty      = errors.New("file is empty")
	ErrBrandingInvalid = errors.New("invalid branding fields")
)

type BrandingService struct {
	brandingRepo *repository.BrandingRepository
	store        storage.Storage
	cache        *cache.BrandingCache
	uploadCfg    config.UploadConfig
	logger       zerolog.Logger
}

func NewBrandingService(
	brandingRepo *repository.BrandingRepository,
	store storage.Storage,
	brandingCache *cache.BrandingCache,
	uploadCfg config.UploadConfig,
	logger zerolog.Logger,
) *BrandingService {
	return &BrandingService{
		brandingRepo: brandingRepo,
		store:        store,
		cache:        brandingCache,
		uploadCfg:    uploadCfg,
		logger:       logger.With().Str("service", "branding").Logger(),
	}
}

// DefaultBranding 没有保存过品牌配置时返回的值
func DefaultBranding() *model.BrandingSettings {
	logo, favicon := DefaultLogoURL, DefaultFaviconURL
	return &model.BrandingSettings{
		SiteName:     DefaultSiteName,
		LogoURL:      &logo,
		FaviconURL:   &favicon,
		PrimaryColor: DefaultPrimaryColor,
		AccentColor:  DefaultAccentColor,
		DefaultFont:  DefaultFont,
	}
}

// Get 读取品牌配置；fresh 为 true 时跳过缓存直接读库并刷新缓存
func (s *BrandingService) Get(ctx context.Context, fresh bool) (*model.BrandingSettings, error) {
	if !fresh {
		cached, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn().Err(err).Msg("branding cache read failed")
		}
		if ok {
			return cached, nil
		}
	}

	branding, err := s.load()
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, branding); err != nil {
		s.logger.Warn().Err(err).Msg("branding cache write failed")
	}
	return branding, nil
}

// Update 合并文本字段和上传的资源；未上传的资源保持原值
func (s *BrandingService) Update(ctx context.Context, update *dto.BrandingUpdate, logo, favicon *dto.BrandingAsset) (*model.BrandingSettings, error) {
	branding, err := s.load()
	if err != nil {
		return nil, err
	}

	if update != nil {
		if update.SiteName != "" {
			branding.SiteName = strings.TrimSpace(update.SiteName)
		}
		if update.PrimaryColor != "" {
			branding.PrimaryColor = update.PrimaryColor
		}
		if update.AccentColor != "" {
			branding.AccentColor = update.AccentColor
		}
		if update.DefaultFont != "" {
			branding.DefaultFont = update.DefaultFont
		}
	}
	if branding.SiteName == "" {
		return nil, fmt.Errorf("%w: siteName is required", ErrBrandingInvalid)
	}

	// 先校验全部文件再写存储，避免只写入一半
	for _, asset := range []*dto.BrandingAsset{logo, favicon} {
		if asset == nil {
			continue
		}
		if err := s.checkAsset(asset); err != nil {
			return nil, err
		}
	}

	if logo != nil {
		obj, err := s.putAsset(ctx, AssetLogo, logo)
		if err != nil {
			return nil, err
		}
		branding.LogoURL, branding.LogoPath = &obj.URL, &obj.Key
	}
	if favicon != nil {
		obj, err := s.putAsset(ctx, AssetFavicon, favicon)
		if err != nil {
			return nil, err
		}
		branding.FaviconURL, branding.FaviconPath = &obj.URL, &obj.Key
	}

	if err := s.brandingRepo.Save(branding); err != nil {
		return nil, fmt.Errorf("save branding: %w", err)
	}

	s.invalidate(ctx)
	return branding, nil
}

// Reset 恢复默认文字和默认图片路径，已上传的文件不删除
func (s *BrandingService) Reset(ctx context.Context) (*model.BrandingSettings, error) {
	branding, err := s.load()
	if err != nil {
		return nil, err
	}

	defaults := DefaultBranding()
	branding.SiteName = defaults.SiteName
	branding.PrimaryColor = defaults.PrimaryColor
	branding.AccentColor = defaults.AccentColor
	branding.DefaultFont = defaults.DefaultFont
	branding.LogoURL, branding.LogoPath = defaults.LogoURL, nil
	branding.FaviconURL, branding.FaviconPath = defaults.FaviconURL, nil

	if err := s.brandingRepo.Save(branding); err != nil {
		return nil, fmt.Errorf("save branding: %w", err)
	}

	s.invalidate(ctx)
	return branding, nil
}

func (s *BrandingService) load() (*model.BrandingSettings, error) {
	branding, err := s.brandingRepo.Get()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DefaultBranding(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load branding: %w", err)
	}
	return branding, nil
}

func (s *BrandingService) checkAsset(asset *dto.BrandingAsset) error {
	if len(asset.Data) == 0 {
		return ErrAssetEmpty
	}
	if s.uploadCfg.MaxAssetSize > 0 && int64(len(asset.Data)) > s.uploadCfg.MaxAssetSize {
		return fmt.Errorf("%w: %s exceeds %d bytes", ErrAssetTooLarge, asset.Filename, s.uploadCfg.MaxAssetSize)
	}

	asset.ContentType = assetContentType(asset)
	if len(s.uploadCfg.AllowedContentTypes) == 0 {
		return nil
	}
	for _, allowed := range s.uploadCfg.AllowedContentTypes {
		if strings.EqualFold(allowed, asset.ContentType) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrAssetType, asset.ContentType)
}

func (s *BrandingService) putAsset(ctx context.Context, kind string, asset *dto.BrandingAsset) (*storage.Object, error) {
	ext := strings.ToLower(filepath.Ext(asset.Filename))
	key := fmt.Sprintf("branding/%s/%s%s", kind, uuid.New().String(), ext)

	obj, err := s.store.Put(ctx, key, asset.Data, asset.ContentType)
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", kind, err)
	}

	s.logger.Info().Str("kind", kind).Str("key", obj.Key).Int("size", len(asset.Data)).Msg("branding asset stored")
	return obj, nil
}

func (s *BrandingService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate branding cache")
	}
}

// assetContentType 以扩展名为准，其次是客户端声明的类型，最后嗅探内容
func assetContentType(asset *dto.BrandingAsset) string {
	if ct := storage.ContentTypeByExt(filepath.Ext(asset.Filename)); ct != "application/octet-stream" {
		return ct
	}
	if ct := strings.TrimSpace(strings.SplitN(asset.ContentType, ";", 2)[0]); ct != "" && ct != "application/octet-stream" {
		return strings.ToLower(ct)
	}
	return http.DetectContentType(asset.Data)
}
