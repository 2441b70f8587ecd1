package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"arenabook/internal/notifications"
	"arenabook/pkg/config"
	kafka_config "arenabook/pkg/kafka/config"
)

const ServiceName = "notifications"

func main() {
	cfg := config.Load(ServiceName)
	kafkaCfg := kafka_config.Load()

	worker, err := notifications.NewWorker(cfg, kafkaCfg)
	if err != nil {
		cfg.Log.Fatal("Failed to create notifications worker", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	cfg.Log.Info("Starting Notifications worker",
		"ops_topic", cfg.NotifyOpsTopic,
		"email_topic", cfg.NotifyEmailTopic,
	)
	if err := worker.Run(ctx); err != nil {
		cfg.Log.Error("Notifications worker stopped with error", "error", err)
	}

	if err := worker.Close(); err != nil {
		cfg.Log.Error("Failed to close notifications worker", "error", err)
	}
	cfg.Log.Info("Notifications worker stopped")
}
