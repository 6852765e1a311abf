package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/editur/editur_server/internal/model"
	"github.com/editur/editur_server/internal/model/dto"
	"github.com/editur/editur_server/internal/pkg/cache"
	"github.com/editur/editur_server/internal/pkg/stripecheck"
	"github.com/editur/editur_server/internal/pkg/validate"
	"github.com/editur/editur_server/internal/repository"
)

// 配置分组名，branding 之外的分组各占 app_settings 表一行
const (
	SectionBranding     = "branding"
	SectionGeneral      = "general"
	SectionEmail        = "email"
	SectionSubscription = "subscription"
	SectionStripe       = "stripe"
	SectionPrivacy      = "privacy"
	SectionStorage      = "storage"
)

var ErrInvalidSettingsBody = errors.New("invalid JSON body")

// ValidationError 携带全部校验失败信息
type ValidationError struct {
	Message string
	Errors  []string
}

func (e *ValidationError) Error() string {
	return e.Message + ": " + strings.Join(e.Errors, "; ")
}

type SettingsService struct {
	settingRepo  *repository.SettingRepository
	brandingRepo *repository.BrandingRepository
	cache        *cache.BrandingCache
	defaults     func() dto.Settings
	validate     *validator.Validate
	logger       zerolog.Logger
}

// NewSettingsService defaults 每次调用都必须返回新值
func NewSettingsService(
	settingRepo *repository.SettingRepository,
	brandingRepo *repository.BrandingRepository,
	brandingCache *cache.BrandingCache,
	defaults func() dto.Settings,
	logger zerolog.Logger,
) *SettingsService {
	if defaults == nil {
		defaults = DefaultSettings
	}
	return &SettingsService{
		settingRepo:  settingRepo,
		brandingRepo: brandingRepo,
		cache:        brandingCache,
		defaults:     defaults,
		validate:     validate.New(),
		logger:       logger.With().Str("service", "settings").Logger(),
	}
}

// GetSettings 以默认值为底，叠加已保存的各分组
func (s *SettingsService) GetSettings() (*dto.Settings, error) {
	settings := s.defaults()

	branding, err := s.brandingRepo.Get()
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("load branding: %w", err)
	}
	if branding != nil {
		overlayBranding(&settings.Branding, branding)
	}

	rows, err := s.settingRepo.List()
	if err != nil {
		return nil, fmt.Errorf("load settings: %w", err)
	}
	targets := sectionTargets(&settings)
	for _, row := range rows {
		target, ok := targets[row.Section]
		if !ok || len(row.Value) == 0 {
			continue
		}
		if err := json.Unmarshal(row.Value, target); err != nil {
			// 损坏的分组回退到默认值
			s.logger.Warn().Err(err).Str("section", row.Section).Msg("stored settings section is not valid JSON")
			reset := s.defaults()
			resetSection(&settings, &reset, row.Section)
		}
	}

	return &settings, nil
}

// UpdateSettings 把请求体合并到当前配置上：请求里没有的字段保持原值
func (s *SettingsService) UpdateSettings(ctx context.Context, body []byte) (*dto.Settings, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, ErrInvalidSettingsBody
	}

	settings, err := s.GetSettings()
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(trimmed, settings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSettingsBody, err)
	}

	if errs := s.Validate(settings); len(errs) > 0 {
		return nil, &ValidationError{Message: "Invalid settings", Errors: errs}
	}

	sections := make(map[string][]byte, 6)
	for name, section := range sectionTargets(settings) {
		if name == SectionBranding {
			continue
		}
		raw, err := json.Marshal(section)
		if err != nil {
			return nil, err
		}
		sections[name] = raw
	}

	branding, err := s.brandingRepo.Get()
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("load branding: %w", err)
		}
		branding = &model.BrandingSettings{}
	}
	applyBranding(branding, &settings.Branding)

	if err := s.settingRepo.SaveAll(sections, branding); err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate branding cache")
	}

	s.logger.Info().Msg("settings updated")
	return settings, nil
}

// Validate 返回所有字段校验和 Stripe 凭据格式错误
func (s *SettingsService) Validate(settings *dto.Settings) []string {
	var errs []string
	if err := s.validate.Struct(settings); err != nil {
		errs = append(errs, validate.Messages(err)...)
	}

	st := settings.Stripe
	errs = append(errs, stripecheck.ValidateFormat(st.PublishableKey, st.SecretKey, st.WebhookSecret)...)
	if st.EnableLiveMode && st.SecretKey != "" && !stripecheck.IsLiveKey(st.SecretKey) {
		errs = append(errs, "Live mode requires live Stripe keys")
	}
	return errs
}

// GetEmailSection 当前生效的邮件配置
func (s *SettingsService) GetEmailSection() (*dto.EmailSection, string, error) {
	settings, err := s.GetSettings()
	if err != nil {
		return nil, "", err
	}
	return &settings.Email, settings.Branding.SiteName, nil
}

func sectionTargets(settings *dto.Settings) map[string]interface{} {
	return map[string]interface{}{
		SectionBranding:     &settings.Branding,
		SectionGeneral:      &settings.General,
		SectionEmail:        &settings.Email,
		SectionSubscription: &settings.Subscription,
		SectionStripe:       &settings.Stripe,
		SectionPrivacy:      &settings.Privacy,
		SectionStorage:      &settings.Storage,
	}
}

func resetSection(dst, defaults *dto.Settings, section string) {
	switch section {
	case SectionGeneral:
		dst.General = defaults.General
	case SectionEmail:
		dst.Email = defaults.Email
	case SectionSubscription:
		dst.Subscription = defaults.Subscription
	case SectionStripe:
		dst.Stripe = defaults.Stripe
	case SectionPrivacy:
		dst.Privacy = defaults.Privacy
	case SectionStorage:
		dst.Storage = defaults.Storage
	}
}

func overlayBranding(dst *dto.BrandingSection, b *model.BrandingSettings) {
	if b.SiteName != "" {
		dst.SiteName = b.SiteName
	}
	if b.PrimaryColor != "" {
		dst.PrimaryColor = b.PrimaryColor
	}
	if b.AccentColor != "" {
		dst.AccentColor = b.AccentColor
	}
	if b.DefaultFont != "" {
		dst.DefaultFont = b.DefaultFont
	}
	if b.LogoURL != nil && *b.LogoURL != "" {
		dst.LogoURL = *b.LogoURL
	}
	if b.FaviconURL != nil && *b.FaviconURL != "" {
		dst.FaviconURL = *b.FaviconURL
	}
}

// applyBranding 写回品牌行；URL 被改成别的地址时原存储路径不再对应，清空 path
func applyBranding(b *model.BrandingSettings, section *dto.BrandingSection) {
	b.SiteName = section.SiteName
	b.PrimaryColor = section.PrimaryColor
	b.AccentColor = section.AccentColor
	b.DefaultFont = section.DefaultFont

	if b.LogoURL == nil || *b.LogoURL != section.LogoURL {
		b.LogoURL = stringPtrOrNil(section.LogoURL)
		b.LogoPath = nil
	}
	if b.FaviconURL == nil || *b.FaviconURL != section.FaviconURL {
		b.FaviconURL = stringPtrOrNil(section.FaviconURL)
		b.FaviconPath = nil
	}
}

func stringPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
