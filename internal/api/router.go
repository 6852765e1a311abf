package api

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/editur/editur_server/config"
	"github.com/editur/editur_server/internal/api/handler"
	"github.com/editur/editur_server/internal/api/middleware"
	"github.com/editur/editur_server/internal/pkg/validate"
	"github.com/editur/editur_server/internal/repository"
)

// Handlers 路由需要的全部 handler
type Handlers struct {
	Auth     *handler.AuthHandler
	User     *handler.UserHandler
	Password *handler.PasswordHandler
	Video    *handler.VideoHandler
	Branding *handler.BrandingHandler
	Settings *handler.SettingsHandler
	Admin    *handler.AdminHandler
}

type Router struct {
	handlers  Handlers
	userRepo  *repository.UserRepository
	staticDir string
	cfg       *config.Config
	logger    zerolog.Logger
}

// NewRouter staticDir 非空时在 local.public_url 下提供本地上传的文件
func NewRouter(
	handlers Handlers,
	userRepo *repository.UserRepository,
	staticDir string,
	cfg *config.Config,
	logger zerolog.Logger,
) *Router {
	return &Router{
		handlers:  handlers,
		userRepo:  userRepo,
		staticDir: staticDir,
		cfg:       cfg,
		logger:    logger,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 校验错误里使用 json 字段名
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		validate.UseJSONNames(v)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(r.logger))
	engine.Use(middleware.CORS(r.cfg.CORS))

	if r.staticDir != "" {
		engine.Static(r.cfg.Storage.Local.PublicURL, r.staticDir)
	}

	h := r.handlers
	requireAuth := middleware.Auth(r.cfg.JWT.Secret)
	requireAdmin := middleware.AdminOnly(r.userRepo)

	api := engine.Group("/api")
	{
		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Auth.Register)
			auth.POST("/login", h.Auth.Login)
			auth.GET("/github", h.Auth.GithubAuth)
			auth.GET("/github/callback", h.Auth.GithubCallback)
		}

		// 公开接口 - 品牌与套餐
		api.GET("/branding", h.Branding.Get)
		api.GET("/plans", h.Admin.ListActivePlans)

		// 品牌修改只允许管理员
		branding := api.Group("/branding", requireAuth, requireAdmin)
		{
			branding.POST("", h.Branding.Update)
			branding.POST("/reset", h.Branding.Reset)
		}

		// 需要认证的接口
		authenticated := api.Group("", requireAuth)
		{
			user := authenticated.Group("/user")
			{
				user.GET("/profile", h.User.GetProfile)
				user.PUT("/profile", h.User.UpdateProfile)
				user.GET("/subscription", h.User.GetSubscription)
				user.POST("/avatar", h.User.UploadAvatar)
				user.PUT("/password", h.Password.Change)
			}

			videos := authenticated.Group("/videos")
			{
				videos.GET("", h.Video.List)
				videos.GET("/:id", h.Video.Get)
				videos.DELETE("/:id", h.Video.Delete)
			}
		}

		// 管理后台
		admin := api.Group("/admin", requireAuth, requireAdmin)
		{
			admin.GET("/settings", h.Settings.Get)
			admin.POST("/settings", h.Settings.Update)
			admin.POST("/stripe/test-connection", h.Settings.TestStripeConnection)

			admin.GET("/plans", h.Admin.ListPlans)
			admin.POST("/plans", h.Admin.CreatePlan)
			admin.GET("/plans/:id", h.Admin.GetPlan)
			admin.PUT("/plans/:id", h.Admin.UpdatePlan)
			admin.DELETE("/plans/:id", h.Admin.DeletePlan)

			admin.GET("/stats", h.Admin.Stats)
			admin.POST("/email/test", h.Admin.SendTestEmail)
		}
	}

	return engine
}
