package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/editur/editur_server/internal/model/dto"
	"github.com/editur/editur_server/internal/pkg/response"
	"github.com/editur/editur_server/internal/pkg/validate"
	"github.com/editur/editur_server/internal/service"
)

type AdminHandler struct {
	planService  *service.PlanService
	statsService *service.StatsService
	emailService *service.EmailService
	logger       zerolog.Logger
}

func NewAdminHandler(
	planService *service.PlanService,
	statsService *service.StatsService,
	emailService *service.EmailService,
	logger zerolog.Logger,
) *AdminHandler {
	return &AdminHandler{
		planService:  planService,
		statsService: statsService,
		emailService: emailService,
		logger:       logger.With().Str("handler", "admin").Logger(),
	}
}

// ListPlans 套餐列表，active=true 时只返回上架套餐
// GET /api/admin/plans
func (h *AdminHandler) ListPlans(c *gin.Context) {
	plans, err := h.planService.List(c.Query("active") == "true")
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list plans")
		response.ServerError(c, "")
		return
	}
	response.Success(c, plans)
}

// ListActivePlans 公开的价格页只展示上架套餐
// GET /api/plans
func (h *AdminHandler) ListActivePlans(c *gin.Context) {
	plans, err := h.planService.List(true)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list plans")
		response.ServerError(c, "")
		return
	}
	response.Success(c, plans)
}

// GetPlan 套餐详情
// GET /api/admin/plans/:id
func (h *AdminHandler) GetPlan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	plan, err := h.planService.Get(id)
	if err != nil {
		h.respondPlanError(c, err)
		return
	}
	response.Success(c, plan)
}

// CreatePlan 新建套餐
// POST /api/admin/plans
func (h *AdminHandler) CreatePlan(c *gin.Context) {
	var req dto.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid plan", validate.Messages(err))
		return
	}

	plan, err := h.planService.Create(&req)
	if err != nil {
		h.respondPlanError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Plan created", plan)
}

// UpdatePlan 更新套餐
// PUT /api/admin/plans/:id
func (h *AdminHandler) UpdatePlan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid plan", validate.Messages(err))
		return
	}

	plan, err := h.planService.Update(id, &req)
	if err != nil {
		h.respondPlanError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Plan updated", plan)
}

// DeletePlan 删除没有订阅的套餐
// DELETE /api/admin/plans/:id
func (h *AdminHandler) DeletePlan(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.planService.Delete(id); err != nil {
		h.respondPlanError(c, err)
		return
	}
	response.SuccessWithMessage(c, "Plan deleted", nil)
}

// Stats 后台统计
// GET /api/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	stats, err := h.statsService.Overview()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load stats")
		response.ServerError(c, "")
		return
	}
	response.Success(c, stats)
}

// SendTestEmail 用已保存的 SMTP 配置发送测试邮件
// POST /api/admin/email/test
func (h *AdminHandler) SendTestEmail(c *gin.Context) {
	var req dto.TestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid request", validate.Messages(err))
		return
	}

	if err := h.emailService.SendTest(req.To); err != nil {
		switch {
		case errors.Is(err, service.ErrEmailNotConfigured),
			errors.Is(err, service.ErrEmailSendFailed):
			response.ParamError(c, err.Error())
		default:
			h.logger.Error().Err(err).Msg("failed to send test email")
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "Test email sent", nil)
}

func (h *AdminHandler) respondPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrPlanExists),
		errors.Is(err, service.ErrPlanInUse):
		response.DuplicateError(c, err.Error())
	default:
		h.logger.Error().Err(err).Msg("plan request failed")
		response.ServerError(c, "")
	}
}
