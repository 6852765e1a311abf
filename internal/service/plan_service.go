package service

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/editur/editur_server/internal/model"
	"github.com/editur/editur_server/internal/model/dto"
	"github.com/editur/editur_server/internal/repository"
)

var (
	ErrPlanNotFound = errors.New("Plan not found")
	ErrPlanExists   = errors.New("A plan with this name already exists")
	ErrPlanInUse    = errors.New("Plan has subscribers and cannot be deleted")
)

type PlanService struct {
	planRepo *repository.PlanRepository
	subRepo  *repository.SubscriptionRepository
}

func NewPlanService(planRepo *repository.PlanRepository, subRepo *repository.SubscriptionRepository) *PlanService {
	return &PlanService{
		planRepo: planRepo,
		subRepo:  subRepo,
	}
}

func (s *PlanService) List(activeOnly bool) ([]*model.SubscriptionPlan, error) {
	return s.planRepo.List(activeOnly)
}

func (s *PlanService) Get(id int64) (*model.SubscriptionPlan, error) {
	plan, err := s.planRepo.GetByID(id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPlanNotFound
	}
	return plan, err
}

func (s *PlanService) Create(req *dto.PlanRequest) (*model.SubscriptionPlan, error) {
	name := strings.TrimSpace(req.Name)
	exists, err := s.planRepo.ExistsByName(name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrPlanExists
	}

	plan := &model.SubscriptionPlan{IsActive: true}
	applyPlan(plan, req)
	if err := s.planRepo.Create(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *PlanService) Update(id int64, req *dto.PlanRequest) (*model.SubscriptionPlan, error) {
	plan, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name != plan.Name {
		exists, err := s.planRepo.ExistsByName(name)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrPlanExists
		}
	}

	applyPlan(plan, req)
	if err := s.planRepo.Update(plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// Delete 有订阅引用的套餐不能删除，只能下架
func (s *PlanService) Delete(id int64) error {
	if _, err := s.Get(id); err != nil {
		return err
	}

	count, err := s.subRepo.CountByPlanID(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrPlanInUse
	}

	return s.planRepo.Delete(id)
}

func applyPlan(plan *model.SubscriptionPlan, req *dto.PlanRequest) {
	plan.Name = strings.TrimSpace(req.Name)
	plan.Description = req.Description
	plan.PriceMonthly = req.PriceMonthly
	plan.PriceYearly = req.PriceYearly
	plan.Features = req.Features
	if plan.Features == nil {
		plan.Features = []string{}
	}
	plan.MinutesAllowed = req.MinutesAllowed
	plan.MaxFileSize = req.MaxFileSize
	plan.MaxConcurrentRequests = req.MaxConcurrentRequests
	plan.StorageDuration = req.StorageDuration
	if req.IsActive != nil {
		plan.IsActive = *req.IsActive
	}
}
