package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/editur/editur_server/internal/api/middleware"
	"github.com/editur/editur_server/internal/model/dto"
	"github.com/editur/editur_server/internal/pkg/response"
	"github.com/editur/editur_server/internal/pkg/validate"
	"github.com/editur/editur_server/internal/service"
)

type UserHandler struct {
	userService   *service.UserService
	maxAvatarSize int64
	logger        zerolog.Logger
}

func NewUserHandler(userService *service.UserService, maxAvatarSize int64, logger zerolog.Logger) *UserHandler {
	return &UserHandler{
		userService:   userService,
		maxAvatarSize: maxAvatarSize,
		logger:        logger.With().Str("handler", "user").Logger(),
	}
}

// GetProfile 获取当前用户信息
// GET /api/user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	profile, err := h.userService.GetProfile(userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, profile)
}

// UpdateProfile 更新昵称和头像地址
// PUT /api/user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid profile", validate.Messages(err))
		return
	}

	profile, err := h.userService.UpdateProfile(userID, &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Profile updated", profile)
}

// GetSubscription 当前订阅与分钟数
// GET /api/user/subscription
func (h *UserHandler) GetSubscription(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	sub, err := h.userService.GetSubscription(userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, sub)
}

// UploadAvatar 上传头像
// POST /api/user/avatar
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		response.ParamError(c, "Please choose a file")
		return
	}

	asset, err := readUpload(file, h.maxAvatarSize)
	if err != nil {
		h.respondError(c, err)
		return
	}

	avatarURL, err := h.userService.UploadAvatar(c.Request.Context(), userID, asset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Avatar uploaded", gin.H{
		"image": avatarURL,
	})
}

func (h *UserHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrSubscriptionNotFound):
		response.NotFoundError(c, err.Error())
	case errors.Is(err, service.ErrAssetTooLarge),
		errors.Is(err, service.ErrAssetType),
		errors.Is(err, service.ErrAssetEmpty):
		response.ParamError(c, err.Error())
	default:
		h.logger.Error().Err(err).Msg("user request failed")
		response.ServerError(c, "")
	}
}
