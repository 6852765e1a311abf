package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/editur/editur_server/internal/api/middleware"
	"github.com/editur/editur_server/internal/model/dto"
	"github.com/editur/editur_server/internal/pkg/response"
	"github.com/editur/editur_server/internal/service"
)

type PasswordHandler struct {
	passwordService *service.PasswordService
	logger          zerolog.Logger
}

func NewPasswordHandler(passwordService *service.PasswordService, logger zerolog.Logger) *PasswordHandler {
	return &PasswordHandler{
		passwordService: passwordService,
		logger:          logger.With().Str("handler", "password").Logger(),
	}
}

// Change 修改密码；没有密码的账号和社交账号只需要 newPassword
// PUT /api/user/password
func (h *PasswordHandler) Change(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "Invalid request body")
		return
	}

	err := h.passwordService.ChangePassword(userID, middleware.GetAccount(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNewPasswordRequired),
			errors.Is(err, service.ErrCurrentPasswordRequired),
			errors.Is(err, service.ErrPasswordTooShort),
			errors.Is(err, service.ErrPasswordTooLong),
			errors.Is(err, service.ErrCurrentPasswordIncorrect):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrUserNotFound):
			response.NotFoundError(c, err.Error())
		default:
			h.logger.Error().Err(err).Int64("user_id", userID).Msg("failed to change password")
			response.ServerError(c, "Failed to update password")
		}
		return
	}

	response.SuccessWithMessage(c, "Password updated successfully", nil)
}
