package model

import (
	"time"
)

// BrandingSettings 站点品牌配置，表中只保留一行
type BrandingSettings struct {
	ID           int64     `gorm:"primaryKey" json:"id"`
	SiteName     string    `gorm:"size:100;not null" json:"siteName"`
	LogoURL      *string   `gorm:"size:500" json:"logoUrl"`
	LogoPath     *string   `gorm:"size:500" json:"logoPath"`
	FaviconURL   *string   `gorm:"size:500" json:"faviconUrl"`
	FaviconPath  *string   `gorm:"size:500" json:"faviconPath"`
	PrimaryColor string    `gorm:"size:20;not null" json:"primaryColor"`
	AccentColor  string    `gorm:"size:20;not null" json:"accentColor"`
	DefaultFont  string    `gorm:"size:100;not null" json:"defaultFont"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (BrandingSettings) TableName() string {
	return "branding_settings"
}
