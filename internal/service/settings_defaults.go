package service

import (
	"github.com/editur/editur_server/internal/model/dto"
)

const (
	DefaultSiteName     = "Editur"
	DefaultPrimaryColor = "#3B82F6"
	DefaultAccentColor  = "#10B981"
	DefaultFont         = "Inter"
	DefaultLogoURL      = "/logo.png"
	DefaultFaviconURL   = "/favicon.ico"
)

// DefaultSettings 返回一份新的默认配置，调用方可以随意修改返回值
func DefaultSettings() dto.Settings {
	return dto.Settings{
		Branding: dto.BrandingSection{
			SiteName:     DefaultSiteName,
			LogoURL:      DefaultLogoURL,
			FaviconURL:   DefaultFaviconURL,
			PrimaryColor: DefaultPrimaryColor,
			AccentColor:  DefaultAccentColor,
			DefaultFont:  DefaultFont,
		},
		General: dto.GeneralSection{
			SiteDescription:   "Turn long videos into short reels",
			DefaultLanguage:   "en",
			Timezone:          "UTC",
			AllowRegistration: true,
		},
		Email: dto.EmailSection{
			Provider:            "smtp",
			SMTPPort:            587,
			FromName:            DefaultSiteName,
			EnableNotifications: true,
		},
		Subscription: dto.SubscriptionSection{
			EnableSubscriptions: true,
			DefaultPlan:         "free",
			TrialDays:           7,
			Currency:            "USD",
			AllowPlanChanges:    true,
			FreeMinutes:         30,
		},
		Stripe: dto.StripeSection{},
		Privacy: dto.PrivacySection{
			EnableAnalytics:   true,
			CookieConsent:     true,
			DataRetentionDays: 365,
			AllowDataExport:   true,
		},
		Storage: dto.StorageSection{
			Provider:         "local",
			MaxFileSize:      500,
			AllowedFileTypes: []string{"mp4", "mov", "avi", "webm"},
			RetentionDays:    30,
			LocalPath:        "./uploads",
		},
	}
}
