package model

import (
	"time"
)

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusCanceled = "canceled"
	SubscriptionStatusExpired  = "expired"
	SubscriptionStatusPastDue  = "past_due"
)

type Subscription struct {
	ID                   int64      `gorm:"primaryKey" json:"id"`
	UserID               int64      `gorm:"not null;uniqueIndex" json:"user_id"`
	Plan                 string     `gorm:"size:50;not null" json:"plan"`
	PlanID               *int64     `gorm:"index" json:"plan_id,omitempty"`
	Status               string     `gorm:"size:20;default:active;index" json:"status"`
	StartDate            time.Time  `gorm:"not null" json:"start_date"`
	EndDate              *time.Time `gorm:"index" json:"end_date,omitempty"`
	MinutesAllowed       int        `gorm:"default:0" json:"minutes_allowed"`
	MinutesUsed          int        `gorm:"default:0" json:"minutes_used"`
	StripeCustomerID     *string    `gorm:"size:100;index" json:"stripe_customer_id,omitempty"`
	StripeSubscriptionID *string    `gorm:"size:100;index" json:"stripe_subscription_id,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	// 关联
	SubscriptionPlan *SubscriptionPlan `gorm:"foreignKey:PlanID" json:"subscription_plan,omitempty"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

// MinutesRemaining 剩余可用分钟数，不会小于 0
func (s *Subscription) MinutesRemaining() int {
	remaining := s.MinutesAllowed - s.MinutesUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}
