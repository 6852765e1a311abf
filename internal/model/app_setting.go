package model

import (
	"time"

	"gorm.io/datatypes"
)

// AppSetting 以 JSON 文档保存的一段系统配置（general、email、stripe 等）
type AppSetting struct {
	Section   string         `gorm:"primaryKey;size:50" json:"section"`
	Value     datatypes.JSON `gorm:"not null" json:"value"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func (AppSetting) TableName() string {
	return "app_settings"
}
