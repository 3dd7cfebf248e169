package main

import (
	"context"
	"os"
	"time"

	"nota/internal/amqp"
	"nota/internal/cli"
	"nota/internal/log"
	"nota/internal/notify"
	"nota/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"), log.ComponentWorker)
	logger.Info("Starting nota-worker")

	cfg := cli.LoadAndValidateConfig(logger)
	if !cfg.NotificationsEnabled() {
		logger.Error("AMQP_URL is required for the notification worker")
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue,
		amqp.WithPrefetch(cfg.AMQPPrefetch),
		amqp.WithLogger(logger),
	)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", log.FieldError, err)
		os.Exit(1)
	}
	defer client.Close()

	sink := notify.NewLogNotifier(logger.WithComponent(log.ComponentNotify))
	w := worker.NewNotificationWorker(sink, logger)

	ctx, done := cli.GracefulShutdown(logger, 10*time.Second, func(context.Context) {
		if err := client.Close(); err != nil {
			logger.Warn("AMQP close failed", log.FieldError, err)
		}
	})

	if err := w.Run(ctx, client); err != nil {
		logger.Error("Notification consumption failed", log.FieldError, err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped gracefully")
}
