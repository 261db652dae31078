package service

import (
	"context"
	"errors"
	"time"

	reservationserrors "bouncely/internal/reservations/errors"
	"bouncely/internal/reservations/lifecycle"
	apperrors "bouncely/pkg/errors"
	"bouncely/pkg/model"
)

type pageFunc func(ctx context.Context, limit int, offset int64) ([]*model.Reservation, error)

// ExpireStale moves awaiting_payment reservations older than ttl to expired.
// Running it twice with the same now is a no-op the second time.
func (s *reservationService) ExpireStale(ctx context.Context, now time.Time, ttl time.Duration) (*model.SweepResult, error) {
	cutoff := now.Add(-ttl)
	in := lifecycle.Input{Actor: model.SystemActor, Now: now, TTL: ttl}

	return s.sweep(ctx, lifecycle.ActionSweepTimeout, in, func(ctx context.Context, limit int, offset int64) ([]*model.Reservation, error) {
		return s.repo.ListAwaitingPaymentBefore(ctx, cutoff, limit, offset)
	})
}

// CompleteFinished moves confirmed reservations whose event has ended to
// completed.
func (s *reservationService) CompleteFinished(ctx context.Context, now time.Time) (*model.SweepResult, error) {
	in := lifecycle.Input{Actor: model.SystemActor, Now: now}

	return s.sweep(ctx, lifecycle.ActionEventDatePassed, in, func(ctx context.Context, limit int, offset int64) ([]*model.Reservation, error) {
		return s.repo.ListConfirmedEndedBefore(ctx, now, limit, offset)
	})
}

// sweep pages through candidates. Transitioned reservations drop out of the
// query, so the offset only advances past the ones left behind.
func (s *reservationService) sweep(ctx context.Context, action lifecycle.Action, in lifecycle.Input, page pageFunc) (*model.SweepResult, error) {
	result := &model.SweepResult{Action: string(action)}
	limit := s.cfg.SweepBatchSize
	if limit <= 0 {
		limit = 100
	}
	var offset int64

	for {
		if err := ctx.Err(); err != nil {
			return result, apperrors.Timeout("Sweep interrupted").WithCause(err)
		}

		candidates, err := page(ctx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list sweep candidates", "action", action, "offset", offset, "error", err)
			return result, apperrors.Internal("Failed to list reservations", err)
		}

		transitioned := 0
		for _, r := range candidates {
			result.Examined++

			updated, err := s.transition(ctx, r, action, in, "")
			switch {
			case err == nil:
				transitioned++
				s.announce(ctx, action, updated, r.Status)
			case errors.Is(err, reservationserrors.ErrStatusConflict),
				errors.Is(err, reservationserrors.ErrInvalidStateTransition),
				errors.Is(err, reservationserrors.ErrNotFound):
				result.Skipped++
			default:
				result.Failed++
				s.cfg.Log.Error("Sweep transition failed", "id", r.ID, "action", action, "error", err)
			}
		}
		result.Transitioned += transitioned

		if len(candidates) < limit {
			break
		}
		offset += int64(len(candidates) - transitioned)
	}

	s.cfg.Log.Info("Sweep finished",
		"action", result.Action,
		"examined", result.Examined,
		"transitioned", result.Transitioned,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)
	return result, nil
}
