package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bouncely/internal/sweeper"
	"bouncely/internal/wiring"
	"bouncely/pkg/config"
	kafka_config "bouncely/pkg/kafka/config"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/aws/aws-xray-sdk-go/xray"
)

const ServiceName = "reservation-sweeper"

func main() {
	timeout := flag.Duration("timeout", 5*time.Minute, "maximum run time of a sweep")
	flag.Parse()

	os.Exit(run(*timeout))
}

func run(timeout time.Duration) int {
	cfg := config.Load(ServiceName)
	cfg.SetStores()
	defer cfg.GracefulShutdown()

	if cfg.EnableTracing {
		if err := xray.Configure(xray.Config{DaemonAddr: "127.0.0.1:2000", ServiceVersion: "1.0.0"}); err != nil {
			cfg.Log.Warn("Failed to configure X-Ray, using defaults", "error", err)
			if err := xray.Configure(xray.Config{}); err != nil {
				cfg.Log.Error("Failed to configure default X-Ray settings", "error", err)
				return 1
			}
		}
		os.Setenv("AWS_XRAY_CONTEXT_MISSING", "LOG_ERROR")
	}

	kcfg, err := kafka_config.Load()
	if err != nil {
		cfg.Log.Error("Invalid Kafka configuration", "error", err)
		return 1
	}
	components, err := wiring.Build(cfg, kcfg, ServiceName)
	if err != nil {
		cfg.Log.Error("Failed to initialize services", "error", err)
		return 1
	}
	defer components.Close()

	notifier, err := taskNotifier(cfg)
	if err != nil {
		cfg.Log.Error("Failed to load AWS config", "error", err)
		return 1
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.EnableTracing {
		var seg *xray.Segment
		ctx, seg = xray.BeginSegment(ctx, ServiceName)
		defer seg.Close(nil)
		if err := seg.AddMetadata("timeout", timeout.String()); err != nil {
			cfg.Log.Warn("Failed to add segment metadata", "error", err)
		}
	}

	job := sweeper.NewJob(components.Service, notifier, cfg.AwaitingPaymentTTL, cfg.EnableTracing, cfg.Log)
	if _, err := job.Run(ctx); err != nil {
		cfg.Log.Error("Sweep failed", "error", err)
		return 1
	}
	return 0
}

// taskNotifier reports to Step Functions when the run carries a task token
// and falls back to the log otherwise.
func taskNotifier(cfg *config.Config) (sweeper.TaskNotifier, error) {
	if cfg.SFNTaskToken == "" {
		return sweeper.NewLogNotifier(cfg.Log), nil
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
	if err != nil {
		return nil, err
	}
	return sweeper.NewStepFunctionsNotifier(sfn.NewFromConfig(awsCfg), cfg.SFNTaskToken), nil
}
