package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/editur/editur_server/internal/api/middleware"
	"github.com/editur/editur_server/internal/model/dto"
	"github.com/editur/editur_server/internal/pkg/response"
	"github.com/editur/editur_server/internal/pkg/validate"
	"github.com/editur/editur_server/internal/service"
)

type VideoHandler struct {
	videoService *service.VideoService
	logger       zerolog.Logger
}

func NewVideoHandler(videoService *service.VideoService, logger zerolog.Logger) *VideoHandler {
	return &VideoHandler{
		videoService: videoService,
		logger:       logger.With().Str("handler", "video").Logger(),
	}
}

// List 当前用户的视频
// GET /api/videos
func (h *VideoHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	var req dto.ListVideosRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.ValidationError(c, "Invalid query", validate.Messages(err))
		return
	}

	videos, total, page, pageSize, err := h.videoService.List(userID, &req)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list videos")
		response.ServerError(c, "")
		return
	}

	response.SuccessPage(c, total, page, pageSize, videos)
}

// Get 视频详情（含片段）
// GET /api/videos/:id
func (h *VideoHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	video, err := h.videoService.Get(userID, id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.Success(c, video)
}

// Delete 删除视频及其片段
// DELETE /api/videos/:id
func (h *VideoHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		response.AuthError(c, "")
		return
	}

	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.videoService.Delete(userID, id); err != nil {
		h.respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Video deleted", nil)
}

func (h *VideoHandler) respondError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrVideoNotFound) {
		response.NotFoundError(c, err.Error())
		return
	}
	h.logger.Error().Err(err).Msg("video request failed")
	response.ServerError(c, "")
}

// parseID 解析路径参数 id，失败时已写入 400 响应
func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.ParamError(c, "Invalid ID")
		return 0, false
	}
	return id, true
}
