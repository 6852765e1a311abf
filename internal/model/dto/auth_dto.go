package dto

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Name     string `json:"name" binding:"omitempty,max=100"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

// RegisterResponse 注册响应
type RegisterResponse struct {
	UserID int64 `json:"user_id"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse 登录响应
type LoginResponse struct {
	Token string    `json:"token"`
	User  *UserInfo `json:"user"`
}

// UserInfo 用户信息（返回给前端）
type UserInfo struct {
	ID          int64             `json:"id"`
	Email       string            `json:"email"`
	Name        string            `json:"name,omitempty"`
	Image       string            `json:"image,omitempty"`
	Role        string            `json:"role"`
	HasPassword bool              `json:"has_password"`
	CreatedAt   string            `json:"created_at,omitempty"`
	Usage       *SubscriptionInfo `json:"subscription,omitempty"`
}

// SubscriptionInfo 订阅与分钟数使用情况
type SubscriptionInfo struct {
	Plan             string `json:"plan"`
	Status           string `json:"status"`
	MinutesAllowed   int    `json:"minutes_allowed"`
	MinutesUsed      int    `json:"minutes_used"`
	MinutesRemaining int    `json:"minutes_remaining"`
	EndDate          string `json:"end_date,omitempty"`
}

// ChangePasswordRequest 修改密码，首次设置密码或社交账号可以不传 currentPassword
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdateProfileRequest 更新用户信息请求
type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Image *string `json:"image,omitempty" binding:"omitempty,max=500"`
}
