package app

import (
	"github.com/rrayyhanep/Heaven-receipt/internal/config"
	"github.com/rrayyhanep/Heaven-receipt/internal/employee"
	"github.com/rrayyhanep/Heaven-receipt/internal/middleware"
	"github.com/rrayyhanep/Heaven-receipt/internal/payroll"
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/apperror"
	"github.com/rrayyhanep/Heaven-receipt/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewRouter mounts the pages at / and /ui, and the JSON API under /api. rdb
// may be nil.
func NewRouter(cfg config.Config, svcs Services, rdb *redis.Client, logger *zap.Logger) (*gin.Engine, error) {
	apperror.Init()

	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(
		gin.Recovery(),
		middleware.RequestContext(logger),
		middleware.RequestLogger(logger),
	)
	router.NoRoute(middleware.NotFound())
	router.NoMethod(middleware.MethodNotAllowed(router))

	// --- Handlers ---
	webHandler := web.NewHandler(svcs.Employees, web.Options{
		CompanyName:   cfg.CompanyName,
		CurrencyLabel: cfg.CurrencyLabel,
	}, logger)
	employeeHandler := employee.NewHandler(svcs.Employees, logger)
	payrollHandler := payroll.NewHandler(svcs.Payroll, logger)

	// --- Routes Registration ---
	if err := web.RegisterRoutes(router, webHandler); err != nil {
		return nil, err
	}

	api := router.Group("/api")
	{
		employee.RegisterRoutes(api, employeeHandler)
		payroll.RegisterRoutes(api, payrollHandler, rdb)
	}

	return router, nil
}
