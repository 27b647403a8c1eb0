package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"estate_dashboard_backend/internal/email"
	"estate_dashboard_backend/internal/scheduler"
	"estate_dashboard_backend/platform/config"
	"estate_dashboard_backend/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sender := email.NewSender(cfg)
	if !cfg.IsSMTPEnabled() {
		log.Warn("SMTP_HOST not configured; follow-up reminders are logged only")
	}

	worker, err := scheduler.NewWorker(cfg, sender, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
	log.Info("scheduler stopped")
}
