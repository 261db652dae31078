package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvReservationStore = "RESERVATION_STORE"
	EnvPostgresDSN      = "POSTGRES_DSN"
	EnvRedisAddr        = "REDIS_ADDR"
	EnvRedisPassword    = "REDIS_PASSWORD"
	EnvRedisDB          = "REDIS_DB"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"
	EnvEnvFile  = "ENV_FILE"

	EnvJWTSecret            = "JWT_SECRET"
	EnvPaymentWebhookSecret = "PAYMENT_WEBHOOK_SECRET"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvServiceFeeRate      = "SERVICE_FEE_RATE"
	EnvAwaitingPaymentTTL  = "AWAITING_PAYMENT_TTL"
	EnvNotificationTimeout = "NOTIFICATION_TIMEOUT"
	EnvSweepBatchSize      = "SWEEP_BATCH_SIZE"
	EnvPublicBaseURL       = "PUBLIC_BASE_URL"

	EnvReservationEventsTopic  = "RESERVATION_EVENTS_TOPIC"
	EnvNotificationsEmailTopic = "NOTIFICATIONS_EMAIL_TOPIC"
	EnvNotificationsSMSTopic   = "NOTIFICATIONS_SMS_TOPIC"
	EnvPaymentsTopic           = "PAYMENTS_TOPIC"
	EnvPaymentsConsumerGroup   = "PAYMENTS_CONSUMER_GROUP"
	EnvDLQTopic                = "KAFKA_DLQ_TOPIC"

	EnvEnableTracing = "ENABLE_TRACING"
	EnvSFNTaskToken  = "SFN_TASK_TOKEN"
)
