package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contabilita/internal/amqp"
	"contabilita/internal/cli"
	applog "contabilita/internal/log"
	"contabilita/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(applog.ComponentReminder, os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(logger)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL must be set, the reminder worker only publishes notifications")
		os.Exit(1)
	}

	repo := cli.InitRepository(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.ReminderQueue)
	if err != nil {
		logger.Error("Failed to connect to AMQP", "error", err)
		os.Exit(1)
	}
	defer client.Close()

	processor := services.NewReminderProcessor(repo, client)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("Reminder worker configured",
		"interval", cfg.ReminderInterval,
		"queue", cfg.ReminderQueue)

	runOnce(ctx, logger, processor)

	ticker := time.NewTicker(cfg.ReminderInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Reminder worker stopped")
			return
		case <-ticker.C:
			runOnce(ctx, logger, processor)
		}
	}
}

func runOnce(ctx context.Context, logger *applog.Logger, processor *services.ReminderProcessor) {
	count, err := processor.ProcessDue(ctx, time.Now())
	if err != nil {
		logger.Error("Reminder processing failed", "error", err)
		return
	}
	logger.Info("Reminder processing complete", "reminders_published", count)
}
