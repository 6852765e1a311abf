package handler

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/editur/editur_server/internal/model/dto"
	"github.com/editur/editur_server/internal/pkg/response"
	"github.com/editur/editur_server/internal/pkg/stripecheck"
	"github.com/editur/editur_server/internal/service"
)

// StripeTester 检查 Stripe 凭证的连通性
type StripeTester interface {
	TestConnection(ctx context.Context, publishableKey, secretKey, webhookSecret string) stripecheck.Result
}

type SettingsHandler struct {
	settingsService *service.SettingsService
	stripe          StripeTester
	logger          zerolog.Logger
}

func NewSettingsHandler(settingsService *service.SettingsService, stripe StripeTester, logger zerolog.Logger) *SettingsHandler {
	return &SettingsHandler{
		settingsService: settingsService,
		stripe:          stripe,
		logger:          logger.With().Str("handler", "settings").Logger(),
	}
}

// Get 获取全部后台配置
// GET /api/admin/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.settingsService.GetSettings()
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load settings")
		response.ServerError(c, "Failed to load settings")
		return
	}

	response.SuccessWithField(c, "settings", settings)
}

// Update 保存全部后台配置
// POST /api/admin/settings
func (h *SettingsHandler) Update(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		response.ParamError(c, "Invalid request body")
		return
	}

	settings, err := h.settingsService.UpdateSettings(c.Request.Context(), body)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.Is(err, service.ErrInvalidSettingsBody):
			response.ParamError(c, "Invalid JSON body")
		case errors.As(err, &verr):
			response.ValidationError(c, verr.Message, verr.Errors)
		default:
			h.logger.Error().Err(err).Msg("failed to save settings")
			response.ServerError(c, "Failed to save settings")
		}
		return
	}

	response.SuccessWithField(c, "settings", settings)
}

// TestStripeConnection 校验 Stripe 密钥格式并调用 Stripe 验证账号
// 请求里三个字段都为空时使用已保存的配置
// POST /api/admin/stripe/test-connection
func (h *SettingsHandler) TestStripeConnection(c *gin.Context) {
	var req dto.TestStripeConnectionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ParamError(c, "Invalid JSON body")
			return
		}
	}

	if req.PublishableKey == "" && req.SecretKey == "" && req.WebhookSecret == "" {
		settings, err := h.settingsService.GetSettings()
		if err != nil {
			h.logger.Error().Err(err).Msg("failed to load stripe settings")
			response.ServerError(c, "")
			return
		}
		req.PublishableKey = settings.Stripe.PublishableKey
		req.SecretKey = settings.Stripe.SecretKey
		req.WebhookSecret = settings.Stripe.WebhookSecret
	}

	result := h.stripe.TestConnection(c.Request.Context(), req.PublishableKey, req.SecretKey, req.WebhookSecret)
	if !result.Success {
		response.ValidationError(c, result.Message, result.Errors)
		return
	}

	data := gin.H{"liveMode": result.LiveMode}
	if result.Account != nil {
		data["accountId"] = result.Account.ID
		data["email"] = result.Account.Email
		data["country"] = result.Account.Country
		data["chargesEnabled"] = result.Account.ChargesEnabled
	}
	response.SuccessWithMessage(c, result.Message, data)
}
