package main

import (
	notificationshandler "bouncely/internal/notifications/handler"
	"bouncely/internal/reservations/handler"
	"bouncely/internal/wiring"
	"bouncely/pkg/app"
	"bouncely/pkg/config"
	kafka_config "bouncely/pkg/kafka/config"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	if cfg.JWTSecret == "" {
		cfg.Log.Warn("JWT_SECRET is not set; every bearer token will be rejected")
	}
	cfg.SetStores()

	kcfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Fatal("Invalid Kafka configuration", "error", err)
	}

	cfg.Log.Info("Starting Reservations service")
	components, err := wiring.Build(cfg, kcfg, ServiceName)
	if err != nil {
		cfg.Log.Fatal("Failed to initialize services", "error", err)
	}

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(
		handler.NewReservationHandler(components.Service, components.Validator, cfg.Log, cfg.PaymentWebhookSecret),
		notificationshandler.NewNotificationHandler(components.Notifications, cfg.Log),
	)
	serverApp.OnShutdown(func() {
		components.Close()
		components.Metrics.Log(cfg.Log)
	})
	serverApp.Run()
}
