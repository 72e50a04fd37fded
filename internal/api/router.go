package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/leadline/telecrm-api/internal/api/handler"
	"github.com/leadline/telecrm-api/internal/api/middleware"
	"github.com/leadline/telecrm-api/internal/core/domain"
	"github.com/leadline/telecrm-api/internal/core/service"
	mongodb "github.com/leadline/telecrm-api/internal/infrastructure/db/mongo"
	redisdb "github.com/leadline/telecrm-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, jwtSecret string, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("telecrm"))

	// --- Dependencies ---
	leadRepo := mongodb.NewLeadRepository(db)
	callRepo := mongodb.NewCallRepository(db)
	userRepo := mongodb.NewUserRepository(db)
	statsCache := redisdb.NewStatsCache(rdb, 60*time.Second)

	leadService := service.NewLeadService(leadRepo, callRepo, log)
	callService := service.NewCallService(callRepo, leadRepo, userRepo, log)
	reportService := service.NewReportService(leadRepo, callRepo, userRepo, statsCache, log)
	userService := service.NewUserService(userRepo, log)

	leadHandler := handler.NewLeadHandler(leadService)
	callHandler := handler.NewCallHandler(callService)
	reportHandler := handler.NewReportHandler(reportService)
	userHandler := handler.NewUserHandler(userService)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())

	// --- Authenticated API ---
	v1 := e.Group("/v1", middleware.Auth(jwtSecret))

	leads := v1.Group("/leads")
	leads.POST("", leadHandler.Create)
	leads.GET("", leadHandler.List)
	leads.GET("/meta", leadHandler.Meta)
	leads.GET("/:id", leadHandler.Get)
	leads.PUT("/:id", leadHandler.Update)
	leads.DELETE("/:id", leadHandler.Delete)
	leads.POST("/:id/calls", callHandler.Record)
	leads.GET("/:id/calls", callHandler.ListForLead)

	v1.GET("/calls/connected", callHandler.ListConnected)

	reports := v1.Group("/reports")
	reports.GET("/dashboard", reportHandler.Dashboard)
	reports.GET("/trends", reportHandler.Trends)
	reports.GET("/telecallers", reportHandler.Telecallers, middleware.RBAC(domain.RoleAdmin))

	users := v1.Group("/users")
	users.GET("/me", userHandler.Me)
	users.POST("", userHandler.Create, middleware.RBAC(domain.RoleAdmin))
	users.GET("", userHandler.List, middleware.RBAC(domain.RoleAdmin))
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete, middleware.RBAC(domain.RoleAdmin))

	return e
}
