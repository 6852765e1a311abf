package model

import (
	"time"
)

type Clip struct {
	ID                int64     `gorm:"primaryKey" json:"id"`
	VideoID           int64     `gorm:"not null;index" json:"video_id"`
	StartTime         float64   `gorm:"not null" json:"start_time"`
	EndTime           float64   `gorm:"not null" json:"end_time"`
	OutputURL         string    `gorm:"size:500;not null" json:"output_url"`
	FilePath          string    `gorm:"size:500;not null" json:"file_path"`
	ResizedURL        *string   `gorm:"size:500" json:"resized_url,omitempty"`
	ResizedFilePath   *string   `gorm:"size:500" json:"resized_file_path,omitempty"`
	SubtitledURL      *string   `gorm:"size:500" json:"subtitled_url,omitempty"`
	SubtitledFilePath *string   `gorm:"size:500" json:"subtitled_file_path,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

func (Clip) TableName() string {
	return "clips"
}

func (c *Clip) Duration() float64 {
	return c.EndTime - c.StartTime
}
