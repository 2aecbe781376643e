package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ItmeRoa/Expense-Tracking-App/pkg/config"
	"github.com/ItmeRoa/Expense-Tracking-App/pkg/logx"
)

func main() {
	// 1. Configuration and logger
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	logger := logx.NewLogger(cfg.Log.Logger())
	logger.WithField("version", cfg.Server.AppVersion).Info("Starting Expense Tracker API")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Dependency container
	container, err := NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize container")
	}
	defer container.Cleanup()

	// 3. HTTP app and background workers
	app := newApp(container)
	container.StartBackgroundServices(ctx)

	// 4. Serve until signalled
	startServer(ctx, app, container)
}
