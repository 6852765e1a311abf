package handler

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/editur/editur_server/internal/model/dto"
	"github.com/editur/editur_server/internal/pkg/response"
	"github.com/editur/editur_server/internal/pkg/validate"
	"github.com/editur/editur_server/internal/service"
)

type BrandingHandler struct {
	brandingService *service.BrandingService
	maxAssetSize    int64
	logger          zerolog.Logger
}

func NewBrandingHandler(brandingService *service.BrandingService, maxAssetSize int64, logger zerolog.Logger) *BrandingHandler {
	return &BrandingHandler{
		brandingService: brandingService,
		maxAssetSize:    maxAssetSize,
		logger:          logger.With().Str("handler", "branding").Logger(),
	}
}

// Get 获取品牌配置，带 t 或 _ 参数时绕过缓存
// GET /api/branding
func (h *BrandingHandler) Get(c *gin.Context) {
	_, hasT := c.GetQuery("t")
	_, hasUnderscore := c.GetQuery("_")

	branding, err := h.brandingService.Get(c.Request.Context(), hasT || hasUnderscore)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to load branding")
		response.ServerError(c, "Failed to load branding")
		return
	}

	response.Success(c, branding)
}

// Update 更新品牌配置，logo/favicon 为可选文件
// POST /api/branding
func (h *BrandingHandler) Update(c *gin.Context) {
	var req dto.BrandingUpdate
	if err := c.ShouldBind(&req); err != nil {
		response.ValidationError(c, "Invalid branding settings", validate.Messages(err))
		return
	}

	logo, err := h.readAsset(c, "logo")
	if err != nil {
		response.ParamError(c, err.Error())
		return
	}
	favicon, err := h.readAsset(c, "favicon")
	if err != nil {
		response.ParamError(c, err.Error())
		return
	}

	branding, err := h.brandingService.Update(c.Request.Context(), &req, logo, favicon)
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Branding updated", branding)
}

// Reset 恢复默认品牌配置
// POST /api/branding/reset
func (h *BrandingHandler) Reset(c *gin.Context) {
	branding, err := h.brandingService.Reset(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	response.SuccessWithMessage(c, "Branding reset to defaults", branding)
}

func (h *BrandingHandler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrAssetTooLarge),
		errors.Is(err, service.ErrAssetType),
		errors.Is(err, service.ErrAssetEmpty),
		errors.Is(err, service.ErrBrandingInvalid):
		response.ParamError(c, err.Error())
	default:
		h.logger.Error().Err(err).Msg("failed to save branding")
		response.ServerError(c, "Failed to save branding")
	}
}

// readAsset 读取表单文件，字段不存在时返回 nil
func (h *BrandingHandler) readAsset(c *gin.Context, field string) (*dto.BrandingAsset, error) {
	file, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, errors.New("Failed to read " + field)
	}
	return readUpload(file, h.maxAssetSize)
}

// readUpload 读出上传文件内容，多读一个字节用于大小判断
func readUpload(file *multipart.FileHeader, limit int64) (*dto.BrandingAsset, error) {
	if limit > 0 && file.Size > limit {
		return nil, service.ErrAssetTooLarge
	}

	f, err := file.Open()
	if err != nil {
		return nil, errors.New("Failed to read " + file.Filename)
	}
	defer f.Close()

	var r io.Reader = f
	if limit > 0 {
		r = io.LimitReader(f, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.New("Failed to read " + file.Filename)
	}

	return &dto.BrandingAsset{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
