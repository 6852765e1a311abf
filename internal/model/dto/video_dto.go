package dto

// ListVideosRequest 视频列表查询参数
type ListVideosRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	Status   string `form:"status" binding:"omitempty,max=20"`
}

// VideoStats 管理后台统计
type VideoStats struct {
	TotalUsers    int64            `json:"total_users"`
	TotalVideos   int64            `json:"total_videos"`
	TotalClips    int64            `json:"total_clips"`
	StorageBytes  int64            `json:"storage_bytes"`
	VideosByState map[string]int64 `json:"videos_by_status"`
	ActiveSubs    int64            `json:"active_subscriptions"`
}

// PlanRequest 创建/更新订阅套餐
type PlanRequest struct {
	Name                  string   `json:"name" binding:"required,max=50"`
	Description           string   `json:"description" binding:"max=1000"`
	PriceMonthly          float64  `json:"price_monthly" binding:"min=0"`
	PriceYearly           float64  `json:"price_yearly" binding:"min=0"`
	Features              []string `json:"features"`
	MinutesAllowed        int      `json:"minutes_allowed" binding:"min=0"`
	MaxFileSize           int64    `json:"max_file_size" binding:"min=0"`
	MaxConcurrentRequests int      `json:"max_concurrent_requests" binding:"min=0"`
	StorageDuration       int      `json:"storage_duration" binding:"min=0"`
	IsActive              *bool    `json:"is_active"`
}
