package main

import (
	"context"
	"os"

	appcli "nota/internal/cli"
	"nota/internal/log"
)

func main() {
	appcli.LoadEnvFile()
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	logger := appcli.SetupLogger(level, log.ComponentCLI)

	open := func(ctx context.Context) (*appcli.Services, func() error, error) {
		cfg := appcli.LoadAndValidateConfig(logger)
		result := appcli.InitBackend(ctx, logger, cfg)
		// No cache manager: each invocation is short-lived.
		return appcli.NewServices(result, cfg, nil, logger), result.Close, nil
	}

	app := newApp(context.Background(), open, os.Stdout, logger)
	if err := app.Run(os.Args); err != nil {
		logger.Error("Command failed", log.FieldError, err)
		os.Exit(1)
	}
}
