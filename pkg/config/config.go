package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"bouncely/pkg/client"
	"bouncely/pkg/logger"

	"github.com/joho/godotenv"
)

const (
	StoreMongo    = "mongo"
	StorePostgres = "postgres"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	ReservationStore string
	PostgresDSN      string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Port string

	JWTSecret            string
	PaymentWebhookSecret string

	RateLimitRequests int
	RateLimitWindow   time.Duration

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	ServiceFeeRate      float64
	AwaitingPaymentTTL  time.Duration
	NotificationTimeout time.Duration
	SweepBatchSize      int
	PublicBaseURL       string

	ReservationEventsTopic  string
	NotificationsEmailTopic string
	NotificationsSMSTopic   string
	PaymentsTopic           string
	PaymentsConsumerGroup   string
	DLQTopic                string

	EnableTracing bool
	SFNTaskToken  string

	Log    *logger.Logger
	Client *client.Client
}

// Load reads an optional .env file, then the process environment, and exits
// the process when the result does not validate.
func Load(serviceName string) *Config {
	envFileErr := loadEnvFile(getEnvStr(EnvEnvFile, ".env"))

	log := logger.New(logger.Config{
		Level:     getEnvStr(EnvLogLevel, logger.INFO),
		Format:    logger.JSON,
		AddSource: true,
		Service:   serviceName,
	})
	if envFileErr != nil {
		log.Warn("Failed to load env file", "error", envFileErr)
	}

	cfg := fromEnv(log)
	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func fromEnv(log *logger.Logger) *Config {
	return &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		ReservationStore: strings.ToLower(getEnvStr(EnvReservationStore, DefaultReservationStore)),
		PostgresDSN:      getEnvStr(EnvPostgresDSN, ""),

		RedisAddr:     getEnvStr(EnvRedisAddr, ""),
		RedisPassword: getEnvStr(EnvRedisPassword, ""),
		RedisDB:       getEnvNum(EnvRedisDB, DefaultRedisDB),

		Port: getEnvStr(EnvPort, DefaultPort),

		JWTSecret:            getEnvStr(EnvJWTSecret, ""),
		PaymentWebhookSecret: getEnvStr(EnvPaymentWebhookSecret, ""),

		RateLimitRequests: getEnvNum(EnvRateLimitRequests, DefaultRateLimitRequests),
		RateLimitWindow:   getEnvDuration(EnvRateLimitWindow, DefaultRateLimitWindow),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		ServiceFeeRate:      getEnvFloat(EnvServiceFeeRate, DefaultServiceFeeRate),
		AwaitingPaymentTTL:  getEnvDuration(EnvAwaitingPaymentTTL, DefaultAwaitingPaymentTTL),
		NotificationTimeout: getEnvDuration(EnvNotificationTimeout, DefaultNotificationTimeout),
		SweepBatchSize:      getEnvNum(EnvSweepBatchSize, DefaultSweepBatchSize),
		PublicBaseURL:       strings.TrimRight(getEnvStr(EnvPublicBaseURL, DefaultPublicBaseURL), "/"),

		ReservationEventsTopic:  getEnvStr(EnvReservationEventsTopic, DefaultReservationEventsTopic),
		NotificationsEmailTopic: getEnvStr(EnvNotificationsEmailTopic, DefaultNotificationsEmailTopic),
		NotificationsSMSTopic:   getEnvStr(EnvNotificationsSMSTopic, DefaultNotificationsSMSTopic),
		PaymentsTopic:           getEnvStr(EnvPaymentsTopic, DefaultPaymentsTopic),
		PaymentsConsumerGroup:   getEnvStr(EnvPaymentsConsumerGroup, DefaultPaymentsConsumerGroup),
		DLQTopic:                getEnvStr(EnvDLQTopic, DefaultDLQTopic),

		EnableTracing: getEnvBool(EnvEnableTracing, false),
		SFNTaskToken:  getEnvStr(EnvSFNTaskToken, ""),

		Log:    log,
		Client: client.NewClient(),
	}
}

// SetStores opens every connection the configuration asks for. MongoDB is
// always required because listings, users and notifications live there.
func (cfg *Config) SetStores() {
	cfg.SetMongo()
	if cfg.ReservationStore == StorePostgres {
		cfg.Client.SetPostgres(cfg.Log, cfg.PostgresDSN, cfg.MongoConnTimeout)
	}
	if cfg.RedisAddr != "" {
		cfg.Client.SetRedis(cfg.Log, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.MongoConnTimeout)
	}
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if len(cfg.MongoURI) < 10 || !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", redactMongoURI(cfg.MongoURI)))
	}
	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	switch cfg.ReservationStore {
	case StoreMongo:
	case StorePostgres:
		if cfg.PostgresDSN == "" {
			errors = append(errors, "PostgresDSN is required when ReservationStore is postgres")
		}
	default:
		errors = append(errors, fmt.Sprintf("ReservationStore must be %q or %q, got: %s", StoreMongo, StorePostgres, cfg.ReservationStore))
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RateLimitWindow <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitWindow must be positive, got: %s", cfg.RateLimitWindow))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.RateLimitRequests <= 0 {
		errors = append(errors, fmt.Sprintf("RateLimitRequests must be positive, got: %d", cfg.RateLimitRequests))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.ServiceFeeRate < 0 || cfg.ServiceFeeRate >= 1 {
		errors = append(errors, fmt.Sprintf("ServiceFeeRate must be in [0, 1), got: %v", cfg.ServiceFeeRate))
	}
	if cfg.AwaitingPaymentTTL <= 0 {
		errors = append(errors, fmt.Sprintf("AwaitingPaymentTTL must be positive, got: %s", cfg.AwaitingPaymentTTL))
	}
	if cfg.NotificationTimeout <= 0 || cfg.NotificationTimeout > 30*time.Second {
		errors = append(errors, fmt.Sprintf("NotificationTimeout must be between 0s and 30s, got: %s", cfg.NotificationTimeout))
	}
	if cfg.SweepBatchSize <= 0 {
		errors = append(errors, fmt.Sprintf("SweepBatchSize must be positive, got: %d", cfg.SweepBatchSize))
	}
	if cfg.RedisDB < 0 {
		errors = append(errors, fmt.Sprintf("RedisDB cannot be negative, got: %d", cfg.RedisDB))
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"reservation_store", cfg.ReservationStore,
		"postgres_dsn_set", cfg.PostgresDSN != "",
		"redis_addr", cfg.RedisAddr,
		"port", cfg.Port,
		"jwt_secret_set", cfg.JWTSecret != "",
		"payment_webhook_secret_set", cfg.PaymentWebhookSecret != "",
		"rate_limit_requests", cfg.RateLimitRequests,
		"rate_limit_window", cfg.RateLimitWindow,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"service_fee_rate", cfg.ServiceFeeRate,
		"awaiting_payment_ttl", cfg.AwaitingPaymentTTL,
		"notification_timeout", cfg.NotificationTimeout,
		"sweep_batch_size", cfg.SweepBatchSize,
		"reservation_events_topic", cfg.ReservationEventsTopic,
		"payments_topic", cfg.PaymentsTopic,
		"tracing_enabled", cfg.EnableTracing,
	)
}

func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	err := godotenv.Load(path)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		limit = DefaultPaginationLimit
	} else if limit > MaxPaginationLimit {
		limit = MaxPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	return max(0, offset)
}
