package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/editur/editur_server/config"
	"github.com/editur/editur_server/internal/api"
	"github.com/editur/editur_server/internal/api/handler"
	"github.com/editur/editur_server/internal/database"
	"github.com/editur/editur_server/internal/pkg/cache"
	"github.com/editur/editur_server/internal/pkg/email"
	"github.com/editur/editur_server/internal/pkg/logger"
	"github.com/editur/editur_server/internal/pkg/oauth"
	"github.com/editur/editur_server/internal/pkg/storage"
	"github.com/editur/editur_server/internal/pkg/stripecheck"
	"github.com/editur/editur_server/internal/repository"
	"github.com/editur/editur_server/internal/service"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	// 加载配置
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log)

	// 初始化数据库
	db, err := database.NewMySQL(&cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect database")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	log.Info().Msg("Database connected")

	// 初始化 Redis
	rdb, err := database.NewRedis(&cfg.Redis)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// 初始化存储
	store, err := storage.New(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to init storage")
	}
	staticDir := ""
	if local, ok := store.(*storage.Local); ok {
		staticDir = local.Root()
	}
	log.Info().Str("provider", cfg.Storage.Provider).Msg("Storage ready")

	// 初始化 Repository
	userRepo := repository.NewUserRepository(db)
	subRepo := repository.NewSubscriptionRepository(db)
	planRepo := repository.NewPlanRepository(db)
	videoRepo := repository.NewVideoRepository(db)
	clipRepo := repository.NewClipRepository(db)
	brandingRepo := repository.NewBrandingRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// 初始化 Service
	brandingCache := cache.NewBrandingCache(rdb, time.Duration(cfg.BrandingCache.TTLSeconds)*time.Second)
	settingsService := service.NewSettingsService(settingRepo, brandingRepo, brandingCache, service.DefaultSettings, log)
	github := oauth.NewGithubOAuth(
		cfg.OAuth.Github.ClientID,
		cfg.OAuth.Github.ClientSecret,
		cfg.OAuth.Github.RedirectURI,
	)
	authService := service.NewAuthService(
		userRepo, subRepo, planRepo, settingsService, github, oauth.NewStateStore(rdb), cfg, log)
	userService := service.NewUserService(userRepo, subRepo, store, cfg.Upload)
	passwordService := service.NewPasswordService(userRepo, cfg.Auth)
	videoService := service.NewVideoService(videoRepo, log)
	brandingService := service.NewBrandingService(brandingRepo, store, brandingCache, cfg.Upload, log)
	planService := service.NewPlanService(planRepo, subRepo)
	statsService := service.NewStatsService(userRepo, videoRepo, clipRepo, subRepo)
	emailService := service.NewEmailService(settingsService, email.NewSender(), log)
	stripeChecker := stripecheck.NewChecker(
		stripecheck.NewStripeVerifier(time.Duration(cfg.Stripe.TimeoutSeconds) * time.Second))

	// 初始化 Handler
	handlers := api.Handlers{
		Auth:     handler.NewAuthHandler(authService, cfg.CORS.AllowedOrigins, log),
		User:     handler.NewUserHandler(userService, cfg.Upload.MaxAssetSize, log),
		Password: handler.NewPasswordHandler(passwordService, log),
		Video:    handler.NewVideoHandler(videoService, log),
		Branding: handler.NewBrandingHandler(brandingService, cfg.Upload.MaxAssetSize, log),
		Settings: handler.NewSettingsHandler(settingsService, stripeChecker, log),
		Admin:    handler.NewAdminHandler(planService, statsService, emailService, log),
	}

	// 初始化 Router
	engine := api.NewRouter(handlers, userRepo, staticDir, cfg, log).Setup()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	log.Info().Msg("Server exited")
}
