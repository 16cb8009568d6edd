package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hanlinyan-dev/option-pricing/internal/audit"
	"github.com/hanlinyan-dev/option-pricing/internal/config"
	"github.com/hanlinyan-dev/option-pricing/internal/handlers"
	"github.com/hanlinyan-dev/option-pricing/internal/logger"
	"github.com/hanlinyan-dev/option-pricing/internal/metrics"
	"github.com/hanlinyan-dev/option-pricing/internal/pricing"
	"github.com/hanlinyan-dev/option-pricing/internal/version"
)

func main() {
	cfg, err := config.LoadAndValidate("")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize proper logging with config level and file path
	if err := logger.InitWith(logger.Config{
		Level:      cfg.Logging.LogLevel,
		File:       cfg.Logging.LogFile,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
	}); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logger.Close()
	logger.Always.Printf("🚀 Option pricer %s starting - Port: %s", version.String(), cfg.Port)

	if cfg.Logging.LogLevel == "verbose" {
		fmt.Printf("⚠️  VERBOSE LOGGING ENABLED - path boundary events will be logged to %s\n", cfg.Logging.LogFile)
	}

	engine, err := pricing.NewEngine(cfg.Engine)
	if err != nil {
		log.Fatalf("Failed to initialize engine: %v", err)
	}
	logger.Always.Printf("🔧 EXECUTION MODE: %s (%d workers, %d paths per stream, generator %s)",
		engine.Mode(), engine.Workers(), engine.ChunkSize(), cfg.Engine.Generator)

	var auditor audit.Auditor = audit.Nop{}
	if cfg.Audit.Enabled {
		rec, err := audit.NewRecorder(cfg.Audit.File, audit.DefaultBufferSize)
		if err != nil {
			log.Fatalf("Failed to open audit file: %v", err)
		}
		auditor = rec
	}
	defer func() {
		if err := auditor.Close(); err != nil {
			logger.Warn.Printf("⚠️ AUDIT: %v", err)
		}
	}()

	var m *metrics.Metrics
	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		m = metrics.New()
		metricsHandler = m.Handler()
	}

	service := pricing.NewService(engine, cfg, m, auditor)
	router := handlers.NewRouter(handlers.NewPricingHandler(service), metricsHandler, cfg.Metrics.Path)

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Always.Printf("🛑 Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error.Printf("❌ Shutdown: %v", err)
		}
	}()

	fmt.Printf("🌐 Server starting on http://localhost:%s\n", cfg.Port)
	logger.Always.Printf("🌐 Server starting on http://localhost:%s", cfg.Port)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error.Printf("❌ Server failed: %v", err)
	}
}
