package di

import (
	"context"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"user-management-service/api"
	"user-management-service/cmd/api/infrastructure"
	"user-management-service/internal/adapter/db/postgres"
	ginhandler "user-management-service/internal/adapter/gin/handler"
	"user-management-service/internal/adapter/gin/middleware"
	ginrouter "user-management-service/internal/adapter/gin/router"
	"user-management-service/internal/config"
	"user-management-service/internal/usecase/user"
	redisclient "user-management-service/pkg/redis"
	"user-management-service/web"
)

// Container holds all application dependencies
type Container struct {
	Config        *config.Config
	Logger        *zap.Logger
	DB            *gorm.DB
	RedisClient   *redisclient.Client // nil unless rate limiting is enabled
	UserUC        user.UserUsecase
	RateLimiter   *middleware.RateLimiter
	UserHandler   *ginhandler.UserHandler
	SystemHandler *ginhandler.SystemHandler
	Router        *gin.Engine
}

// NewContainer creates and initializes all application dependencies
func NewContainer(ctx context.Context, cfg *config.Config, l *zap.Logger) (*Container, error) {
	// Validate configuration before initializing any dependencies
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	c := &Container{Config: cfg, Logger: l}
	if err := c.init(ctx); err != nil {
		_ = c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Container) init(ctx context.Context) error {
	cfg, l := c.Config, c.Logger

	db, err := infrastructure.NewDatabase(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	c.DB = db

	if err := postgres.Migrate(ctx, db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	rdb, err := infrastructure.NewRedisClient(ctx, cfg, l)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	c.RedisClient = rdb

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	checks := map[string]ginhandler.Pinger{"database": sqlDB}

	if rdb != nil {
		c.RateLimiter = middleware.NewRateLimiter(rdb.Client, middleware.RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			BurstCapacity:     cfg.RateLimit.BurstCapacity,
			Enabled:           cfg.RateLimit.Enabled,
		}, l)
		checks["redis"] = ginhandler.PingerFunc(rdb.Healthy)
	}

	repo := postgres.NewUserRepoPG(db, l)
	c.UserUC = user.New(repo, l)
	c.UserHandler = ginhandler.NewUserHandler(c.UserUC, l)
	c.SystemHandler = ginhandler.NewSystemHandler(cfg.Logger.ServiceName, checks, l)

	ui, err := web.Dist(cfg.App.UIDistDir)
	if err != nil {
		return fmt.Errorf("failed to load UI bundle: %w", err)
	}

	cors := middleware.DefaultCORSConfig()
	if len(cfg.App.CORSAllowedOrigins) > 0 {
		cors.AllowedOrigins = cfg.App.CORSAllowedOrigins
	}

	router, err := ginrouter.SetupRouter(ginrouter.Deps{
		Users:       c.UserHandler,
		System:      c.SystemHandler,
		RateLimiter: c.RateLimiter,
		CORS:        cors,
		UI:          ui,
		SwaggerPath: api.SwaggerPath,
		SwaggerJSON: api.SwaggerJSON(),
		Log:         l,
	})
	if err != nil {
		return fmt.Errorf("failed to set up router: %w", err)
	}
	c.Router = router

	return nil
}

// Close closes all resources held by the container
func (c *Container) Close() error {
	var errs []error

	// Close Redis connection
	if c.RedisClient != nil {
		if err := c.RedisClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close Redis: %w", err))
		}
	}

	// Close database connection
	if c.DB != nil {
		if err := infrastructure.CloseDatabase(c.DB); err != nil {
			errs = append(errs, fmt.Errorf("failed to close database: %w", err))
		}
	}

	return errors.Join(errs...)
}
