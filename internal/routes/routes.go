package routes

import (
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"nutripae-rh/internal/controllers"
	"nutripae-rh/internal/repositories"
	"nutripae-rh/internal/services"
	"nutripae-rh/pkg/config"
	"nutripae-rh/pkg/middleware"
)

const apiVersion = "1.0.0"

type Loggers struct {
	Main         *zap.Logger
	Auth         *zap.Logger
	Employee     *zap.Logger
	Availability *zap.Logger
}

// NewLoggers derives the named child loggers from the root logger.
func NewLoggers(root *zap.Logger) *Loggers {
	return &Loggers{
		Main:         root.Named("main"),
		Auth:         root.Named("auth"),
		Employee:     root.Named("employee"),
		Availability: root.Named("availability"),
	}
}

func InitRouter(
	e *echo.Echo,
	dbConn repositories.Storage,
	redisClient *redis.Client,
	checker middleware.Checker,
	loggers *Loggers,
	cfg *config.Config,
) {
	loggers.Main.Info("InitRouter: registering routes")

	// --- 0. shared ---
	authMW := middleware.NewAuthMiddleware(checker, loggers.Auth)
	txManager := repositories.NewTxManager(dbConn)
	clock := services.SystemClock()

	// --- 1. repositories ---
	employeeRepo := repositories.NewEmployeeRepository(dbConn, loggers.Employee)
	availabilityRepo := repositories.NewAvailabilityRepository(dbConn, loggers.Availability)
	parametricRepo := repositories.NewParametricRepository(dbConn, loggers.Main)
	cacheRepo := repositories.NewRedisCacheRepository(redisClient)

	// --- 2. services ---
	parametricService := services.NewParametricService(parametricRepo, cacheRepo, cfg.Cache.ParametricTTL, loggers.Main)
	employeeService := services.NewEmployeeService(
		txManager, employeeRepo, parametricService, clock, cfg.Server.Timezone, loggers.Employee,
	)
	availabilityService := services.NewAvailabilityService(
		txManager, employeeRepo, availabilityRepo, clock, cfg.Server.Timezone, loggers.Availability,
	)

	// --- 3. routers ---
	runRootRouter(e, cfg.Server.APIPrefix)
	api := e.Group(cfg.Server.APIPrefix)
	runParametricRouter(api, parametricService, loggers.Main)
	runEmployeeRouter(api, employeeService, loggers.Employee, authMW)
	runAvailabilityRouter(api, availabilityService, loggers.Availability, authMW)

	loggers.Main.Info("InitRouter: routes registered", zap.String("api_prefix", cfg.Server.APIPrefix))
}

func runRootRouter(e *echo.Echo, apiPrefix string) {
	rootCtrl := controllers.NewRootController(apiPrefix, apiVersion)

	e.GET("/", rootCtrl.Health)
	e.GET(apiPrefix, rootCtrl.APIInfo)
}
