package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/your-org/historyshorts/internal/app"
	"github.com/your-org/historyshorts/pkg/config"
	"github.com/your-org/historyshorts/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	date := flag.String("date", "", "date to file the event under (defaults to today)")
	flag.Parse()

	text := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if text == "" {
		log.Fatal("usage: generate-event-from-text [-date YYYY-MM-DD] <text>")
	}

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

	if *date == "" {
		*date = app.Today()
	}

	ev, err := a.GenerateFromText(ctx, *date, text)
	if err != nil {
		logr.Fatal("generate event from text", zap.Error(err))
	}
	logr.Info("done", zap.String("date", *date), zap.String("event_id", ev.ID.String()))
}
