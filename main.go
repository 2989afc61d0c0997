package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"itblog-api/config"
	"itblog-api/handlers"
	"itblog-api/helper"
	"itblog-api/metrics"
	"itblog-api/middleware"
	"itblog-api/repositories"
	"itblog-api/routes"
	"itblog-api/services"
	"itblog-api/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	sugar := logger.Sugar()

	// Initialize database
	db, err := config.InitDB(cfg.DB, logger)
	if err != nil {
		return err
	}
	images := storage.NewLocalImageStore(cfg.UploadDir, cfg.MaxImageWidth)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	articleRepo := repositories.NewArticleRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	likeRepo := repositories.NewLikeRepository(db)
	followerRepo := repositories.NewFollowerRepository(db)
	notificationRepo := repositories.NewNotificationRepository(db)
	statsRepo := repositories.NewStatsRepository(db)

	// Initialize services
	authService := services.NewAuthService(userRepo, cfg.JWTSecret, cfg.JWTExpiration)
	userService := services.NewUserService(userRepo, images, sugar)
	articleService := services.NewArticleService(articleRepo, categoryRepo, images, sugar)
	categoryService := services.NewCategoryService(categoryRepo, images, sugar)
	interactionService := services.NewInteractionService(articleRepo, commentRepo, likeRepo)
	followerService := services.NewFollowerService(followerRepo, userRepo)
	notificationService := services.NewNotificationService(notificationRepo)
	statsService := services.NewStatsService(statsRepo, userRepo, categoryRepo, commentRepo, likeRepo, followerRepo)

	// Initialize handlers
	h := helper.NewHTTPHelper()
	hs := routes.Handlers{
		Auth:         handlers.NewAuthHandler(authService, h),
		Article:      handlers.NewArticleHandler(articleService, h),
		Interaction:  handlers.NewInteractionHandler(interactionService, h),
		Follower:     handlers.NewFollowerHandler(followerService, h),
		Notification: handlers.NewNotificationHandler(notificationService, h),
		Category:     handlers.NewCategoryHandler(categoryService, h),
		User:         handlers.NewUserHandler(userService, h),
		Stats:        handlers.NewStatsHandler(statsService, h),
	}

	opts := routes.Options{
		JWTSecret:    cfg.JWTSecret,
		Logger:       logger,
		CORSOrigins:  cfg.CORSAllowedOrigins,
		UploadDir:    cfg.UploadDir,
		LoginLimiter: middleware.NewIPRateLimiter(cfg.LoginRateLimit, 10*time.Minute),
		Accounts:     userRepo,
	}
	if cfg.MetricsEnabled {
		if opts.Metrics, err = metrics.New("itblog-api"); err != nil {
			return err
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.SetupRouter(hs, opts),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		sugar.Infow("server starting", "port", cfg.Port, "env", cfg.Env, "db", cfg.DB.Driver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	sugar.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
	return nil
}
