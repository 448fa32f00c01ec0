package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sie-tools/eeat-mentions/internal/analysis"
	"github.com/sie-tools/eeat-mentions/internal/config"
	"github.com/sie-tools/eeat-mentions/internal/scheduler"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logrus.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		logrus.SetLevel(logrus.DebugLevel)
	}
	logrus.SetFormatter(&logrus.JSONFormatter{})

	logrus.Info("Starting E-E-A-T mentions service")

	deps, err := analysis.NewDependencies(context.Background(), cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize adapters: %v", err)
	}
	if closer, ok := deps.Storage.(io.Closer); ok {
		defer closer.Close()
	}

	analysisService := analysis.NewService(cfg, deps)

	// Scheduled runs need a brand to analyse
	if cfg.BrandConfigPath != "" {
		schedulerService, err := scheduler.NewService(cfg, analysisService)
		if err != nil {
			logrus.Fatalf("Failed to create scheduler: %v", err)
		}
		if err := schedulerService.Start(); err != nil {
			logrus.Fatalf("Failed to start scheduler: %v", err)
		}
		defer schedulerService.Stop()
	} else {
		logrus.Warn("BRAND_CONFIG is not set, scheduled analysis is disabled")
	}

	// Live analyses wait on every search adapter before answering
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      newRouter(analysisService),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
