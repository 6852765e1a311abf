package testutil

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/editur/editur_server/internal/model"
)

// TestPassword 默认测试用户的明文密码
const TestPassword = "password123"

var seq int64

func nextSeq() int64 {
	return atomic.AddInt64(&seq, 1)
}

// HashPassword 使用最低成本生成 bcrypt 哈希，仅用于测试
func HashPassword(t *testing.T, password string) string {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	return string(hash)
}

// TestUser 创建测试用户
func TestUser(t *testing.T, db *gorm.DB, opts ...func(*model.User)) *model.User {
	t.Helper()

	passwordHash := HashPassword(t, TestPassword)
	name := fmt.Sprintf("Test User %d", nextSeq())
	user := &model.User{
		Email:        fmt.Sprintf("test_%d_%d@example.com", time.Now().UnixNano(), nextSeq()),
		Name:         &name,
		PasswordHash: &passwordHash,
		Role:         model.RoleUser,
	}

	for _, opt := range opts {
		opt(user)
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// WithEmail 设置邮箱
func WithEmail(email string) func(*model.User) {
	return func(u *model.User) {
		u.Email = email
	}
}

// WithRole 设置角色
func WithRole(role string) func(*model.User) {
	return func(u *model.User) {
		u.Role = role
	}
}

// WithPasswordHash 直接设置密码哈希，传 nil 表示没有密码
func WithPasswordHash(hash *string) func(*model.User) {
	return func(u *model.User) {
		u.PasswordHash = hash
	}
}

// WithoutPassword 模拟只通过第三方登录、尚未设置密码的账号
func WithoutPassword() func(*model.User) {
	return WithPasswordHash(nil)
}

// WithGithubID 设置 GitHub 账号
func WithGithubID(githubID string) func(*model.User) {
	return func(u *model.User) {
		u.GithubID = &githubID
	}
}

// TestPlan 创建测试套餐
func TestPlan(t *testing.T, db *gorm.DB, name string, opts ...func(*model.SubscriptionPlan)) *model.SubscriptionPlan {
	t.Helper()

	plan := &model.SubscriptionPlan{
		Name:                  name,
		Description:           name + " plan",
		PriceMonthly:          9.99,
		PriceYearly:           99,
		Features:              []string{"HD export", "Subtitles"},
		MinutesAllowed:        120,
		MaxFileSize:           500,
		MaxConcurrentRequests: 2,
		StorageDuration:       30,
		IsActive:              true,
	}

	for _, opt := range opts {
		opt(plan)
	}

	if err := db.Create(plan).Error; err != nil {
		t.Fatalf("Failed to create test plan: %v", err)
	}

	return plan
}

// WithPlanPrice 设置月价
func WithPlanPrice(price float64) func(*model.SubscriptionPlan) {
	return func(p *model.SubscriptionPlan) {
		p.PriceMonthly = price
	}
}

// WithPlanInactive 下架套餐
func WithPlanInactive() func(*model.SubscriptionPlan) {
	return func(p *model.SubscriptionPlan) {
		p.IsActive = false
	}
}

// TestSubscription 创建测试订阅
func TestSubscription(t *testing.T, db *gorm.DB, userID int64, plan *model.SubscriptionPlan, minutesUsed int) *model.Subscription {
	t.Helper()

	sub := &model.Subscription{
		UserID:         userID,
		Plan:           "free",
		Status:         model.SubscriptionStatusActive,
		StartDate:      time.Now(),
		MinutesAllowed: 30,
		MinutesUsed:    minutesUsed,
	}
	if plan != nil {
		sub.Plan = plan.Name
		sub.PlanID = &plan.ID
		sub.MinutesAllowed = plan.MinutesAllowed
	}

	if err := db.Create(sub).Error; err != nil {
		t.Fatalf("Failed to create test subscription: %v", err)
	}

	return sub
}

// TestVideo 创建测试视频
func TestVideo(t *testing.T, db *gorm.DB, userID int64, opts ...func(*model.Video)) *model.Video {
	t.Helper()

	n := nextSeq()
	video := &model.Video{
		UserID:      userID,
		Title:       fmt.Sprintf("Test Video %d", n),
		SourceURL:   fmt.Sprintf("https://cdn.example.com/videos/%d.mp4", n),
		Duration:    60,
		FileSize:    1024 * 1024,
		UploadedAt:  time.Now(),
		Status:      model.VideoStatusPending,
		StoragePath: fmt.Sprintf("videos/%d/%d.mp4", userID, n),
	}

	for _, opt := range opts {
		opt(video)
	}

	if err := db.Create(video).Error; err != nil {
		t.Fatalf("Failed to create test video: %v", err)
	}

	return video
}

// WithVideoStatus 设置视频状态
func WithVideoStatus(status string) func(*model.Video) {
	return func(v *model.Video) {
		v.Status = status
	}
}

// WithFileSize 设置文件大小
func WithFileSize(size int64) func(*model.Video) {
	return func(v *model.Video) {
		v.FileSize = size
	}
}

// TestClip 创建测试片段
func TestClip(t *testing.T, db *gorm.DB, videoID int64, start, end float64) *model.Clip {
	t.Helper()

	clip := &model.Clip{
		VideoID:   videoID,
		StartTime: start,
		EndTime:   end,
		OutputURL: fmt.Sprintf("https://cdn.example.com/clips/%d_%d.mp4", videoID, nextSeq()),
		FilePath:  fmt.Sprintf("clips/%d/%d.mp4", videoID, nextSeq()),
	}

	if err := db.Create(clip).Error; err != nil {
		t.Fatalf("Failed to create test clip: %v", err)
	}

	return clip
}
