package repository

import (
	"gorm.io/gorm"

	"github.com/editur/editur_server/internal/model"
)

type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(plan *model.SubscriptionPlan) error {
	return r.db.Create(plan).Error
}

func (r *PlanRepository) GetByID(id int64) (*model.SubscriptionPlan, error) {
	var plan model.SubscriptionPlan
	err := r.db.Where("id = ?", id).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) GetByName(name string) (*model.SubscriptionPlan, error) {
	var plan model.SubscriptionPlan
	err := r.db.Where("name = ?", name).First(&plan).Error
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// List 按月价升序返回套餐，activeOnly 时只返回上架的
func (r *PlanRepository) List(activeOnly bool) ([]*model.SubscriptionPlan, error) {
	var plans []*model.SubscriptionPlan
	query := r.db.Model(&model.SubscriptionPlan{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order("price_monthly ASC, id ASC").Find(&plans).Error
	return plans, err
}

func (r *PlanRepository) Update(plan *model.SubscriptionPlan) error {
	return r.db.Save(plan).Error
}

func (r *PlanRepository) Delete(id int64) error {
	return r.db.Delete(&model.SubscriptionPlan{}, id).Error
}

func (r *PlanRepository) ExistsByName(name string) (bool, error) {
	var count int64
	err := r.db.Model(&model.SubscriptionPlan{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}
