package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "bouncely"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultReservationStore = StoreMongo
	DefaultRedisDB          = 0

	DefaultPort = "8080"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultServiceFeeRate      = 0.10
	DefaultAwaitingPaymentTTL  = 48 * time.Hour
	DefaultNotificationTimeout = 5 * time.Second
	DefaultSweepBatchSize      = 100

	DefaultPaginationLimit = 10
	MaxPaginationLimit     = 100

	DefaultPublicBaseURL = "http://localhost:3000"

	DefaultReservationEventsTopic  = "reservations.events"
	DefaultNotificationsEmailTopic = "notifications.email"
	DefaultNotificationsSMSTopic   = "notifications.sms"
	DefaultPaymentsTopic           = "payments.succeeded"
	DefaultPaymentsConsumerGroup   = "bouncely-payments"
	DefaultDLQTopic                = "bouncely.dlq"
)
