package model

import (
	"time"
)

const (
	VideoStatusPending    = "pending"
	VideoStatusProcessing = "processing"
	VideoStatusDone       = "done"
	VideoStatusError      = "error"
)

type Video struct {
	ID           int64      `gorm:"primaryKey" json:"id"`
	UserID       int64      `gorm:"not null;index" json:"user_id"`
	Title        string     `gorm:"size:200;not null" json:"title"`
	Description  *string    `gorm:"type:text" json:"description,omitempty"`
	SourceURL    string     `gorm:"size:500;not null" json:"source_url"`
	Duration     float64    `gorm:"default:0" json:"duration"`
	FileSize     int64      `gorm:"default:0" json:"file_size"`
	UploadedAt   time.Time  `gorm:"index" json:"uploaded_at"`
	Status       string     `gorm:"size:20;default:pending;index" json:"status"` // 自由字符串，常见 pending/processing/done/error
	ProcessedAt  *time.Time `json:"processed_at,omitempty"`
	StoragePath  string     `gorm:"size:500" json:"storage_path"`
	ErrorMessage *string    `gorm:"type:text" json:"error_message,omitempty"`

	// 关联
	Clips []Clip `gorm:"foreignKey:VideoID" json:"clips,omitempty"`
}

func (Video) TableName() string {
	return "videos"
}
