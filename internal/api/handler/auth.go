package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/editur/editur_server/internal/model/dto"
	"github.com/editur/editur_server/internal/pkg/response"
	"github.com/editur/editur_server/internal/pkg/validate"
	"github.com/editur/editur_server/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	// 登录后允许跳转的站点，与 CORS 白名单一致
	allowedOrigins []string
	logger         zerolog.Logger
}

func NewAuthHandler(authService *service.AuthService, allowedOrigins []string, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		allowedOrigins: allowedOrigins,
		logger:         logger.With().Str("handler", "auth").Logger(),
	}
}

// Register 用户注册
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid registration", validate.Messages(err))
		return
	}

	resp, err := h.authService.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailExists):
			response.DuplicateError(c, err.Error())
		case errors.Is(err, service.ErrRegistrationDisabled):
			response.PermissionError(c, err.Error())
		default:
			h.logger.Error().Err(err).Msg("register failed")
			response.ServerError(c, "")
		}
		return
	}

	response.SuccessWithMessage(c, "Registration successful", resp)
}

// Login 用户登录
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "Invalid login", validate.Messages(err))
		return
	}

	resp, err := h.authService.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.AuthError(c, err.Error())
			return
		}
		h.logger.Error().Err(err).Msg("login failed")
		response.ServerError(c, "")
		return
	}

	response.SuccessWithMessage(c, "Login successful", resp)
}

// GithubAuth 跳转到 GitHub 授权页，redirect 为登录完成后返回的前端地址
// GET /api/auth/github
func (h *AuthHandler) GithubAuth(c *gin.Context) {
	redirect := c.Query("redirect")
	if redirect != "" && !h.redirectAllowed(redirect) {
		response.ParamError(c, "Redirect address is not allowed")
		return
	}

	authURL, err := h.authService.GithubAuthURL(c.Request.Context(), redirect)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to start github login")
		response.ServerError(c, "")
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, authURL)
}

// GithubCallback GitHub 回调
// GET /api/auth/github/callback
func (h *AuthHandler) GithubCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		response.ParamError(c, "Missing authorization code")
		return
	}

	resp, redirect, err := h.authService.GithubCallback(c.Request.Context(), code, c.Query("state"))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOAuthState):
			response.ParamError(c, err.Error())
		case errors.Is(err, service.ErrOAuthFailed):
			response.AuthError(c, service.ErrOAuthFailed.Error())
		case errors.Is(err, service.ErrRegistrationDisabled):
			response.PermissionError(c, err.Error())
		default:
			h.logger.Error().Err(err).Msg("github callback failed")
			response.ServerError(c, "")
		}
		return
	}

	if redirect == "" {
		response.SuccessWithMessage(c, "Login successful", resp)
		return
	}

	target, err := url.Parse(redirect)
	if err != nil {
		response.SuccessWithMessage(c, "Login successful", resp)
		return
	}
	q := target.Query()
	q.Set("token", resp.Token)
	target.RawQuery = q.Encode()
	c.Redirect(http.StatusFound, target.String())
}

// redirectAllowed 只允许站内路径或白名单里的站点
func (h *AuthHandler) redirectAllowed(redirect string) bool {
	if strings.HasPrefix(redirect, "/") && !strings.HasPrefix(redirect, "//") {
		return true
	}

	u, err := url.Parse(redirect)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return false
	}
	origin := u.Scheme + "://" + u.Host
	for _, allowed := range h.allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
