package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/your-org/historyshorts/internal/app"
	"github.com/your-org/historyshorts/internal/generate"
	"github.com/your-org/historyshorts/pkg/config"
	"github.com/your-org/historyshorts/pkg/logger"
)

// Runs the full pipeline for today: generate events, render videos, upload.
// Meant for unattended runs, so approval defaults to off.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	approve := flag.Bool("approve", false, "review each generated text interactively")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logr, err := logger.New(cfg.App.LogLevel, cfg.App.Environment)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	a, err := app.New(ctx, cfg, logr)
	if err != nil {
		logr.Fatal("init app", zap.Error(err))
	}
	defer a.Close(context.Background()) //nolint:errcheck

	approver := generate.ApproveAll
	if *approve {
		approver = app.StdinApprover()
	}

	if err := a.RunAll(ctx, app.Today(), approver); err != nil {
		logr.Fatal("pipeline failed", zap.Error(err))
	}
}
