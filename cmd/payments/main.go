package main

import (
	"context"
	"os/signal"
	"syscall"

	"bouncely/internal/payments"
	"bouncely/internal/wiring"
	"bouncely/pkg/config"
	"bouncely/pkg/kafka"
	kafka_config "bouncely/pkg/kafka/config"
	kafkamw "bouncely/pkg/kafka/middleware"
)

const ServiceName = "payments-consumer"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetStores()
	defer cfg.GracefulShutdown()

	kcfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	components, err := wiring.Build(cfg, kcfg, ServiceName)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize services", "error", err)
	}
	defer components.Close()

	paymentHandler := payments.NewHandler(components.Service, components.Validator, cfg.Log)
	consumer, err := kafka.NewConsumer(kcfg, cfg.Log, cfg.PaymentsTopic, cfg.PaymentsConsumerGroup, cfg.DLQTopic, paymentHandler.Handle)
	if err != nil {
		cfg.Log.Fatal("Failed to create payments consumer", "error", err)
	}
	defer consumer.Close()

	if kcfg.EnableMiddleware {
		consumer.Use(kafkamw.LoggingConsumerMiddleware(cfg.Log))
		consumer.Use(components.Metrics.ConsumerMiddleware())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg.Log.Info("Starting payments consumer",
		"topic", cfg.PaymentsTopic,
		"group", cfg.PaymentsConsumerGroup,
	)
	if err := consumer.Start(ctx); err != nil && ctx.Err() == nil {
		cfg.Log.Error("Payments consumer stopped", "error", err)
	}
	components.Metrics.Log(cfg.Log)
	cfg.Log.Info("Payments consumer shut down")
}
