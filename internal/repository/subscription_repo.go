package repository

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/editur/editur_server/internal/model"
)

type SubscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

func (r *SubscriptionRepository) Create(sub *model.Subscription) error {
	return r.db.Create(sub).Error
}

func (r *SubscriptionRepository) GetByUserID(userID int64) (*model.Subscription, error) {
	var sub model.Subscription
	err := r.db.Preload("SubscriptionPlan").Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upsert 每个用户至多一条订阅，已存在时按 user_id 覆盖
func (r *SubscriptionRepository) Upsert(sub *model.Subscription) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"plan", "plan_id", "status", "start_date", "end_date",
			"minutes_allowed", "stripe_customer_id", "stripe_subscription_id", "updated_at",
		}),
	}).Create(sub).Error
}

func (r *SubscriptionRepository) UpdateStatus(userID int64, status string) error {
	return r.db.Model(&model.Subscription{}).Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		}).Error
}

func (r *SubscriptionRepository) AddMinutesUsed(userID int64, minutes int) error {
	return r.db.Model(&model.Subscription{}).Where("user_id = ?", userID).
		Update("minutes_used", gorm.Expr("minutes_used + ?", minutes)).Error
}

func (r *SubscriptionRepository) DeleteByUserID(userID int64) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.Subscription{}).Error
}

func (r *SubscriptionRepository) CountByStatus(status string) (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

func (r *SubscriptionRepository) CountByPlanID(planID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Subscription{}).Where("plan_id = ?", planID).Count(&count).Error
	return count, err
}
