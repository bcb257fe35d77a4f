package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"darkwebmonitor/internal/app"
	"darkwebmonitor/internal/config"
	"darkwebmonitor/internal/logging"
)

func main() {
	_ = godotenv.Load()

	once := flag.Bool("once", false, "run a single monitoring cycle and exit")
	interval := flag.Int("interval", 0, "monitoring interval in minutes (overrides config)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if *interval > 0 {
		cfg.Monitor.IntervalMinutes = *interval
	}
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}

	if err := application.Run(ctx, *once); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
