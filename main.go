package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"storefront/config"
	"storefront/config/setup"
	"storefront/utils"
	"syscall"
	"time"
)

func main() {
	if err := config.Load(); err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}
	cfg := config.AppConfig

	logger := utils.NewLogger(cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	db, err := setup.InitDatabase(cfg.DBPath, logger)
	if err != nil {
		logger.Error("failed to initialize database", "error", err)
		os.Exit(1)
	}

	publisher := setup.InitPublisher(cfg, logger)
	application := setup.InitApp(cfg, db, publisher, logger)

	app := setup.NewFiberApp(cfg, logger)
	setup.ApplyMiddleware(app, cfg, logger)
	setup.RegisterRoutes(app, application)

	logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server gracefully")

	setup.StopBackground(application, logger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	setup.Close(publisher, db, logger)
	logger.Info("server stopped")
}
