package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Ruthreshjp/tour-app-sub001/internal/notifications/handler"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/config"
	"github.com/Ruthreshjp/tour-app-sub001/pkg/kafka"
	kafka_config "github.com/Ruthreshjp/tour-app-sub001/pkg/kafka/config"
	kafkamiddleware "github.com/Ruthreshjp/tour-app-sub001/pkg/kafka/middleware"
)

const (
	ServiceName = "notifier"
	GroupID     = "notifier"
)

func main() {
	cfg := config.Load(ServiceName)

	kafkaCfg := kafka_config.Load()
	kafkaCfg.LogConfiguration(cfg.Log.Info)

	eventHandler := handler.NewEventHandler(cfg.Log)

	consumer, err := kafka.NewConsumer(
		kafkaCfg,
		cfg.BookingEventsTopic,
		GroupID,
		cfg.BookingEventsDLQ,
		eventHandler.Handle,
	)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka consumer", "error", err)
	}
	consumer.Use(kafkamiddleware.ConsumerLogging(cfg.Log))

	ctx, cancel := context.WithCancel(context.Background())

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-shutdown
		cfg.Log.Info("Shutdown signal received", "signal", sig)
		cancel()
	}()

	cfg.Log.Info("Notifier consuming booking events", "topic", cfg.BookingEventsTopic)
	if err := consumer.Start(ctx); err != nil {
		cfg.Log.Error("Consumer stopped with error", "error", err)
	}

	if err := consumer.Close(); err != nil {
		cfg.Log.Error("Failed to close consumer", "error", err)
	}
	cfg.Log.Info("Notifier stopped")
}
