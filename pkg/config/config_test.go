package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bouncely/pkg/logger"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg := fromEnv(logger.Discard())

	if cfg.ReservationStore != StoreMongo {
		t.Errorf("expected default store %q, got %q", StoreMongo, cfg.ReservationStore)
	}
	if cfg.ServiceFeeRate != DefaultServiceFeeRate {
		t.Errorf("expected default fee rate %v, got %v", DefaultServiceFeeRate, cfg.ServiceFeeRate)
	}
	if cfg.NotificationTimeout != DefaultNotificationTimeout {
		t.Errorf("expected notification timeout %s, got %s", DefaultNotificationTimeout, cfg.NotificationTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv(EnvServiceFeeRate, "0.12")
	t.Setenv(EnvAwaitingPaymentTTL, "2h")
	t.Setenv(EnvReservationStore, "POSTGRES")
	t.Setenv(EnvPostgresDSN, "postgres://localhost/bouncely?sslmode=disable")
	t.Setenv(EnvEnableTracing, "true")
	t.Setenv(EnvPublicBaseURL, "https://bouncely.example/")

	cfg := fromEnv(logger.Discard())

	if cfg.ServiceFeeRate != 0.12 {
		t.Errorf("expected fee rate 0.12, got %v", cfg.ServiceFeeRate)
	}
	if cfg.AwaitingPaymentTTL != 2*time.Hour {
		t.Errorf("expected ttl 2h, got %s", cfg.AwaitingPaymentTTL)
	}
	if cfg.ReservationStore != StorePostgres {
		t.Errorf("expected store to be lower-cased, got %q", cfg.ReservationStore)
	}
	if !cfg.EnableTracing {
		t.Error("expected tracing to be enabled")
	}
	if cfg.PublicBaseURL != "https://bouncely.example" {
		t.Errorf("expected trailing slash trimmed, got %q", cfg.PublicBaseURL)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("overrides should validate: %v", err)
	}
}

func TestValidate_CollectsNumberedErrors(t *testing.T) {
	cfg := fromEnv(logger.Discard())
	cfg.Port = "99999"
	cfg.ReservationStore = StorePostgres
	cfg.ServiceFeeRate = 1.5
	cfg.NotificationTimeout = time.Minute

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"1. Port", "PostgresDSN is required", "ServiceFeeRate", "NotificationTimeout"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := loadEnvFile(filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Errorf("missing env file should be ignored, got %v", err)
	}

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("BOUNCELY_TEST_VALUE=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("BOUNCELY_TEST_VALUE") })

	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile: %v", err)
	}
	if got := os.Getenv("BOUNCELY_TEST_VALUE"); got != "from-file" {
		t.Errorf("expected value from env file, got %q", got)
	}
}

func TestRedactMongoURI(t *testing.T) {
	got := redactMongoURI("mongodb://admin:s3cret@db:27017")
	if strings.Contains(got, "s3cret") {
		t.Errorf("credentials not redacted: %s", got)
	}
}

func TestNormalizePagination(t *testing.T) {
	if NormalizePaginationLimit(0) != DefaultPaginationLimit {
		t.Error("zero limit should use the default")
	}
	if NormalizePaginationLimit(1000) != MaxPaginationLimit {
		t.Error("large limit should be capped")
	}
	if NormalizePaginationLimit(25) != 25 {
		t.Error("in-range limit should be kept")
	}
	if NormalizeOffset(-5) != 0 {
		t.Error("negative offset should clamp to zero")
	}
}
