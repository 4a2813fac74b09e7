// @title NavHub API
// @version 1.0
// @description Personal navigation dashboard: categories, links, hidden links and private bookmarks.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echoMiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/random"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "navhub/docs"
	"navhub/internal/caching"
	"navhub/internal/config"
	"navhub/internal/handlers"
	"navhub/internal/logging"
	"navhub/internal/middleware"
	"navhub/internal/repositories"
	"navhub/internal/services"
	"navhub/pkg/database"
)

const (
	version         = "1.0.0"
	startupTimeout  = 30 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	cfg, err := config.Load(os.Getenv("NAVHUB_CONFIG"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(os.Stdout, cfg.Logging.Level, cfg.Logging.Format)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// JWT configuration
	jwtSecret := cfg.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = random.String(64)
		logger.Warn("JWT_SECRET not set, using a random secret; tokens will not survive a restart")
	}

	startCtx, cancel := context.WithTimeout(ctx, startupTimeout)
	defer cancel()

	// Database
	if err := database.RunMigrations(startCtx, cfg.Database.URL); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	pool, err := database.NewPool(startCtx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	// Redis
	redisClient := caching.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer redisClient.Close()
	cacheSvc := caching.NewRedisCacheService(redisClient)

	// MinIO
	objectStore, err := services.NewMinioService(cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL)
	if err != nil {
		return fmt.Errorf("initialize minio: %w", err)
	}
	if err := objectStore.EnsureBucketExists(startCtx, cfg.Minio.Bucket); err != nil {
		// Icon uploads fail until storage is reachable; everything else keeps working.
		logger.Warn("icon bucket unavailable", "bucket", cfg.Minio.Bucket, "error", err)
	}

	// Create repositories
	configRepo := repositories.NewConfigRepo(pool)
	categoryRepo := repositories.NewCategoryRepo(pool)
	linkRepo := repositories.NewLinkRepo(pool)
	bookmarkRepo := repositories.NewBookmarkRepo(pool)

	// Create services
	tokenIssuer := services.NewTokenIssuer(jwtSecret, services.TokenTTLs{
		Admin:    cfg.Auth.AdminTokenTTL,
		Hidden:   cfg.Auth.HiddenTokenTTL,
		Bookmark: cfg.Auth.BookmarkTokenTTL,
	})
	loginGuard := services.NewLoginGuard(cacheSvc, cfg.Auth.MaxLoginAttempts, cfg.Auth.LockoutDuration)
	authSvc := services.NewAuthService(configRepo, tokenIssuer, loginGuard)
	categorySvc := services.NewCategoryService(categoryRepo, cacheSvc)
	linkSvc := services.NewLinkService(linkRepo)
	bookmarkSvc := services.NewBookmarkService(bookmarkRepo)
	settingsSvc := services.NewSettingsService(configRepo, cacheSvc)
	iconSvc := services.NewIconService(objectStore, cfg.Minio.Bucket)

	// Create handlers
	router := &handlers.Router{
		Auth:       handlers.NewAuthHandlers(authSvc),
		Categories: handlers.NewCategoryHandlers(categorySvc),
		Links:      handlers.NewLinkHandlers(linkSvc),
		Bookmarks:  handlers.NewBookmarkHandlers(bookmarkSvc),
		Settings:   handlers.NewSettingsHandlers(settingsSvc),
		Icons:      handlers.NewIconHandlers(iconSvc),
		Health: handlers.NewHealthHandlers(version, map[string]handlers.Pinger{
			"database": handlers.PingFunc(pool.Ping),
			"redis":    cacheSvc,
			"storage": handlers.PingFunc(func(ctx context.Context) error {
				_, err := objectStore.BucketExists(ctx, cfg.Minio.Bucket)
				return err
			}),
		}),
		Verifier:    authSvc,
		AuthLimiter: middleware.NewAuthRateLimiter(),
		Audit:       middleware.NewAuditMiddleware(logger),
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handlers.NewRequestValidator()
	e.HTTPErrorHandler = handlers.HTTPErrorHandler(logger)

	ipExtractor, err := middleware.ClientIPExtractor(cfg.Server.TrustedProxies)
	if err != nil {
		return err
	}
	e.IPExtractor = ipExtractor

	// Global middleware
	e.Pre(echoMiddleware.RemoveTrailingSlash())
	e.Use(echoMiddleware.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(echoMiddleware.Recover())
	e.Use(echoMiddleware.CORSWithConfig(echoMiddleware.CORSConfig{
		AllowOrigins: cfg.Server.CORSOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	router.Register(e)
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	errCh := make(chan error, 1)
	go func() {
		logger.Info("navhub server starting", "version", version, "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	return e.Shutdown(shutdownCtx)
}
