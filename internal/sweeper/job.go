// Package sweeper runs the time-driven reservation transitions: expiring
// unpaid approvals and completing finished rentals.
package sweeper

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"bouncely/internal/reservations/service"
	"bouncely/pkg/logger"
	"bouncely/pkg/model"

	"github.com/aws/aws-xray-sdk-go/xray"
)

type Summary struct {
	RanAt     time.Time          `json:"ran_at"`
	Expired   *model.SweepResult `json:"expired"`
	Completed *model.SweepResult `json:"completed"`
}

type Job struct {
	service  service.ReservationService
	notifier TaskNotifier
	ttl      time.Duration
	tracing  bool
	log      *logger.Logger
	clock    func() time.Time
}

func NewJob(service service.ReservationService, notifier TaskNotifier, ttl time.Duration, tracing bool, log *logger.Logger) *Job {
	return &Job{
		service:  service,
		notifier: notifier,
		ttl:      ttl,
		tracing:  tracing,
		log:      log,
		clock:    time.Now,
	}
}

// Run expires stale approvals, then completes finished rentals, and reports
// the combined summary. Both passes use the same instant. Any failure is
// reported through the notifier and returned.
func (j *Job) Run(ctx context.Context) (*Summary, error) {
	summary := &Summary{RanAt: j.clock().UTC()}

	err := j.trace(ctx, "ExpireStale", func(ctx context.Context) (err error) {
		summary.Expired, err = j.service.ExpireStale(ctx, summary.RanAt, j.ttl)
		return err
	})
	if err == nil {
		err = j.trace(ctx, "CompleteFinished", func(ctx context.Context) (err error) {
			summary.Completed, err = j.service.CompleteFinished(ctx, summary.RanAt)
			return err
		})
	}
	if err != nil {
		if notifyErr := j.notifier.Fail(context.WithoutCancel(ctx), err); notifyErr != nil {
			j.log.Error("Failed to report sweep failure", "error", notifyErr)
		}
		return summary, err
	}

	output, err := json.Marshal(summary)
	if err != nil {
		return summary, fmt.Errorf("failed to encode sweep summary: %w", err)
	}
	if err := j.notifier.Succeed(ctx, string(output)); err != nil {
		return summary, err
	}

	j.log.Info("Sweep completed",
		"expired", summary.Expired.Transitioned,
		"completed", summary.Completed.Transitioned,
		"failed", summary.Expired.Failed+summary.Completed.Failed,
	)
	return summary, nil
}

func (j *Job) trace(ctx context.Context, name string, fn func(context.Context) error) error {
	if !j.tracing {
		return fn(ctx)
	}

	ctx, seg := xray.BeginSubsegment(ctx, name)
	err := fn(ctx)
	if err == nil {
		if metaErr := seg.AddMetadata("ttl", j.ttl.String()); metaErr != nil {
			j.log.Warn("Failed to add trace metadata", "error", metaErr)
		}
	}
	seg.Close(err)
	return err
}
