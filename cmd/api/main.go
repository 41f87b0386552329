package main

import (
	"github.com/rrayyhanep/Heaven-receipt/internal/app"
	"github.com/rrayyhanep/Heaven-receipt/internal/bootstrap"
	"github.com/rrayyhanep/Heaven-receipt/internal/config"
	"github.com/rrayyhanep/Heaven-receipt/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var logger *zap.Logger
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
		gin.SetMode(gin.ReleaseMode)
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if err := cfg.Validate(); err != nil {
		logger.Fatal("invalid config", zap.Error(err))
	}

	apperror.Init()

	// build dependency + routes
	router, cleanup, err := app.BuildApp(cfg, logger)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}
	defer cleanup()

	err = bootstrap.StartHTTPServer(
		router,
		bootstrap.ServerConfig{
			Port:         cfg.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		bootstrap.NewZapLifecycleLogger(logger),
	)
	if err != nil {
		logger.Error("server stopped", zap.Error(err))
	}
}
