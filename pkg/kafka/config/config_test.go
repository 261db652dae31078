package kafka_config

import (
	"strings"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Brokers) != 1 || cfg.Brokers[0] != DefaultKafkaBrokers {
		t.Errorf("unexpected brokers %v", cfg.Brokers)
	}
	if cfg.ConsumerStartOffset != DefaultConsumerStartOffset {
		t.Errorf("unexpected start offset %d", cfg.ConsumerStartOffset)
	}
}

func TestLoad_SplitsBrokerList(t *testing.T) {
	t.Setenv(EnvKafkaBrokers, "kafka-1:9092, kafka-2:9092,,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Brokers) != 2 || cfg.Brokers[1] != "kafka-2:9092" {
		t.Errorf("unexpected brokers %v", cfg.Brokers)
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv(EnvKafkaProducerCompression, "brotli")
	t.Setenv(EnvKafkaProducerRequireAcks, "2")

	_, err := Load()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"ProducerCompression", "ProducerRequireAcks"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestLoad_SASLRequiresCredentials(t *testing.T) {
	t.Setenv(EnvKafkaSASLMechanism, "SCRAM-SHA-512")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "SASLUsername") {
		t.Fatalf("expected credentials error, got %v", err)
	}
}

func TestMechanism(t *testing.T) {
	tests := []struct {
		mechanism string
		wantName  string
		wantErr   bool
	}{
		{mechanism: SASLNone},
		{mechanism: SASLPlain, wantName: "PLAIN"},
		{mechanism: SASLScramSHA256, wantName: "SCRAM-SHA-256"},
		{mechanism: SASLScramSHA512, wantName: "SCRAM-SHA-512"},
		{mechanism: "gssapi", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.mechanism, func(t *testing.T) {
			cfg := &Config{SASLMechanism: tt.mechanism, SASLUsername: "svc", SASLPassword: "pw"}

			m, err := cfg.Mechanism()
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantName == "" {
				if m != nil {
					t.Errorf("expected no mechanism, got %s", m.Name())
				}
				return
			}
			if m == nil || m.Name() != tt.wantName {
				t.Errorf("mechanism = %v, want %s", m, tt.wantName)
			}
		})
	}
}

func TestTLSConfig(t *testing.T) {
	if (&Config{}).TLSConfig() != nil {
		t.Error("TLS should be off by default")
	}
	if tlsCfg := (&Config{TLSEnabled: true}).TLSConfig(); tlsCfg == nil || tlsCfg.MinVersion == 0 {
		t.Errorf("unexpected TLS config %+v", tlsCfg)
	}
}
