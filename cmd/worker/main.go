// The worker consumes partner orders from Kafka and turns them into
// deliveries. It runs separately from the API so a partner backlog never
// competes with interactive traffic.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"dropmarket/cmd"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	config, err := cmd.LoadConfig()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	db, err := cmd.ConnectDB(config)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root, err := cmd.NewCompositionRoot(ctx, config, db, logger)
	if err != nil {
		logger.Error("Failed to build composition root", "error", err)
		os.Exit(1)
	}
	defer root.Close()

	consumer, err := root.CreatePartnerOrderConsumer()
	if err != nil {
		logger.Error("Failed to create partner order consumer", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := consumer.Close(); closeErr != nil {
			logger.Error("Failed to close consumer group", "error", closeErr)
		}
	}()

	logger.Info("Partner order worker started")
	if err = consumer.Run(ctx); err != nil {
		logger.Error("Partner order consumer stopped", "error", err)
		os.Exit(1)
	}

	logger.Info("Partner order worker stopped")
}
