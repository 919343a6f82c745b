package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"nutripae-rh/internal/authz"
	"nutripae-rh/internal/routes"
	"nutripae-rh/migrations"
	"nutripae-rh/pkg/config"
	"nutripae-rh/pkg/database/postgresql"
	apperrors "nutripae-rh/pkg/errors"
	applogger "nutripae-rh/pkg/logger"
	appmiddleware "nutripae-rh/pkg/middleware"
	"nutripae-rh/pkg/utils"
	"nutripae-rh/pkg/validation"
)

func main() {
	// 1. config and loggers
	cfg := config.New()
	logger := applogger.NewLogger(cfg.Log)
	defer logger.Sync()
	loggers := routes.NewLoggers(logger)

	e := echo.New()
	e.HideBanner = true

	// 2. middleware
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		DisableStackAll: true,
		StackSize:       1 << 10,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			logger.Error("panic recovered",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Error(err),
				zap.String("stack", string(stack)),
			)
			if !c.Response().Committed {
				httpErr := apperrors.NewHttpError(http.StatusInternalServerError, apperrors.ErrInternalServer.Message, err, nil)
				utils.ErrorResponse(c, httpErr, logger)
			}
			return err
		},
	}))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, echo.HeaderXRequestID},
		AllowCredentials: true,
		ExposeHeaders:    []string{echo.HeaderContentDisposition, echo.HeaderXRequestID},
	}))

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(appmiddleware.PropagateRequestID())
	e.Use(appmiddleware.InjectLogger(loggers.Main))
	e.Use(appmiddleware.RequestLogger(loggers.Main))

	// 3. validator
	e.Validator = validation.New()

	// 4. postgres
	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbConn, err := postgresql.ConnectDB(startupCtx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("could not connect to PostgreSQL", zap.Error(err))
	}
	defer dbConn.Close()

	if cfg.Postgres.AutoMigrate {
		if err := migrations.Up(startupCtx, dbConn, logger); err != nil {
			logger.Fatal("could not apply migrations", zap.Error(err))
		}
	}

	// 5. redis. The parametric cache falls back to the database when redis is down.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer redisClient.Close()
	if _, err := redisClient.Ping(startupCtx).Result(); err != nil {
		logger.Warn("redis is unreachable, option lists will be served from the database",
			zap.Error(err), zap.String("address", cfg.Redis.Address))
	}

	// 6. auth gateway
	gateway := authz.NewGateway(cfg.Auth, cfg.Server.APIPrefix, &http.Client{Timeout: cfg.Auth.Timeout}, loggers.Auth)

	// 7. routes
	routes.InitRouter(e, dbConn, redisClient, gateway, loggers, cfg)

	// 8. start
	logger.Info("NutriPAE-RH listening", zap.String("port", cfg.Server.Port))
	if err := e.Start(":" + cfg.Server.Port); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
