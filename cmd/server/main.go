package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rsheldon/courierlog/internal/api/handlers"
	"github.com/rsheldon/courierlog/internal/config"
	"github.com/rsheldon/courierlog/internal/repository"
	"github.com/rsheldon/courierlog/internal/service"
	"github.com/rsheldon/courierlog/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := initLogger(cfg.Debug)
	defer logger.Sync()

	logger.Info("Starting courierlog",
		zap.String("port", cfg.ServerPort),
		zap.Bool("demo_mode", cfg.DemoMode))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var provider session.Provider
	var db *repository.DB

	if cfg.DemoMode {
		manager := session.NewManager(logger, cfg.SessionTTL, cfg.SeedDays)
		go manager.Run(ctx)
		provider = manager
	} else {
		db, err = repository.New(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("Failed to connect database", zap.Error(err))
		}
		defer db.Close()

		if err := db.Migrate(ctx); err != nil {
			logger.Fatal("Failed to migrate database", zap.Error(err))
		}
		logger.Info("Database migrated successfully")

		shiftRepo := repository.NewShiftRepository(db)
		maintRepo := repository.NewMaintenanceRepository(db)

		services, err := service.NewServices(ctx, logger, shiftRepo, maintRepo)
		if err != nil {
			logger.Fatal("Failed to initialize services", zap.Error(err))
		}
		provider = session.NewSingleProvider(services)
	}

	handler := handlers.NewHandler(logger, provider)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", server.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func initLogger(debug bool) *zap.Logger {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
	}

	logger, _ := config.Build()
	return logger
}
