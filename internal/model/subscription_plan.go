package model

import (
	"time"

	"gorm.io/datatypes"
)

type SubscriptionPlan struct {
	ID                    int64                       `gorm:"primaryKey" json:"id"`
	Name                  string                      `gorm:"size:50;uniqueIndex;not null" json:"name"`
	Description           string                      `gorm:"type:text" json:"description"`
	PriceMonthly          float64                     `gorm:"type:decimal(10,2);not null;default:0" json:"price_monthly"`
	PriceYearly           float64                     `gorm:"type:decimal(10,2);not null;default:0" json:"price_yearly"`
	Features              datatypes.JSONSlice[string] `json:"features"`
	MinutesAllowed        int                         `gorm:"not null;default:0" json:"minutes_allowed"`
	MaxFileSize           int64                       `gorm:"not null;default:0" json:"max_file_size"` // MB
	MaxConcurrentRequests int                         `gorm:"not null" json:"max_concurrent_requests"`
	StorageDuration       int                         `gorm:"not null" json:"storage_duration"` // 天
	IsActive              bool                        `gorm:"not null;index" json:"is_active"`
	CreatedAt             time.Time                   `json:"created_at"`
	UpdatedAt             time.Time                   `json:"updated_at"`
}

func (SubscriptionPlan) TableName() string {
	return "subscription_plans"
}
