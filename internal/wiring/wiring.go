// Package wiring assembles the reservation service and its collaborators for
// the binaries under cmd/.
package wiring

import (
	"errors"
	"fmt"

	listingsrepo "bouncely/internal/listings/repository"
	"bouncely/internal/notifications/channel"
	notificationsrepo "bouncely/internal/notifications/repository"
	notifications "bouncely/internal/notifications/service"
	"bouncely/internal/reservations/events"
	"bouncely/internal/reservations/repository"
	"bouncely/internal/reservations/service"
	"bouncely/internal/reservations/validator"
	usersrepo "bouncely/internal/users/repository"
	"bouncely/pkg/config"
	"bouncely/pkg/kafka"
	kafka_config "bouncely/pkg/kafka/config"
	kafkamw "bouncely/pkg/kafka/middleware"
)

type Components struct {
	Service       service.ReservationService
	Validator     *validator.ReservationValidator
	Notifications notificationsrepo.NotificationRepository
	Metrics       *kafkamw.Metrics

	producers []*kafka.Producer
}

// Build opens the Kafka producers and constructs the reservation service on
// top of the store selected by RESERVATION_STORE. Stores must already be
// connected through cfg.SetStores.
func Build(cfg *config.Config, kcfg *kafka_config.Config, source string) (*Components, error) {
	c := &Components{Metrics: kafkamw.NewMetrics()}
	kcfg.LogConfiguration(cfg.Log)

	eventsProducer, err := c.producer(cfg, kcfg, cfg.ReservationEventsTopic)
	if err != nil {
		return nil, err
	}
	emailProducer, err := c.producer(cfg, kcfg, cfg.NotificationsEmailTopic)
	if err != nil {
		c.Close()
		return nil, err
	}
	smsProducer, err := c.producer(cfg, kcfg, cfg.NotificationsSMSTopic)
	if err != nil {
		c.Close()
		return nil, err
	}

	repo, err := ReservationRepository(cfg)
	if err != nil {
		c.Close()
		return nil, err
	}

	c.Notifications = notificationsrepo.NewMongoNotificationRepository(cfg)
	dispatcher := notifications.NewDispatcher(
		usersrepo.NewMongoUserRepository(cfg),
		cfg.Log,
		cfg.NotificationTimeout,
		channel.NewEmail(emailProducer, source),
		channel.NewSMS(smsProducer, source),
		channel.NewInApp(c.Notifications),
	)

	c.Validator = validator.NewReservationValidator(cfg.Log)
	c.Service = service.NewReservationService(
		repo,
		listingsrepo.NewMongoListingRepository(cfg),
		c.Validator,
		dispatcher,
		events.NewKafkaPublisher(eventsProducer, cfg.Log, source),
		cfg,
	)

	cfg.Log.Info("Reservation service initialized",
		"store", cfg.ReservationStore,
		"database", cfg.MongoDatabaseName,
		"events_topic", cfg.ReservationEventsTopic,
	)
	return c, nil
}

// ReservationRepository returns the repository for the configured store.
func ReservationRepository(cfg *config.Config) (repository.ReservationRepository, error) {
	switch cfg.ReservationStore {
	case config.StoreMongo:
		if cfg.Client.Mongo == nil {
			return nil, errors.New("mongo store selected but MongoDB is not connected")
		}
		return repository.NewMongoReservationRepository(cfg), nil
	case config.StorePostgres:
		if cfg.Client.Postgres == nil {
			return nil, errors.New("postgres store selected but PostgreSQL is not connected")
		}
		return repository.NewPostgresReservationRepository(cfg.Client.Postgres, cfg.ReadTimeout, cfg.WriteTimeout), nil
	default:
		return nil, fmt.Errorf("unknown reservation store %q", cfg.ReservationStore)
	}
}

func (c *Components) producer(cfg *config.Config, kcfg *kafka_config.Config, topic string) (*kafka.Producer, error) {
	p, err := kafka.NewProducer(kcfg, cfg.Log, topic, cfg.DLQTopic)
	if err != nil {
		return nil, fmt.Errorf("failed to create producer for %s: %w", topic, err)
	}
	if kcfg.EnableMiddleware {
		p.Use(kafkamw.LoggingProducerMiddleware(cfg.Log))
		p.Use(c.Metrics.ProducerMiddleware())
	}
	c.producers = append(c.producers, p)
	return p, nil
}

// Close flushes and closes every producer. Errors are logged by the
// producers themselves.
func (c *Components) Close() {
	for _, p := range c.producers {
		_ = p.Close()
	}
	c.producers = nil
}
