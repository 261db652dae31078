package service

import (
	"context"
	"errors"

	notifications "bouncely/internal/notifications/service"
	reservationserrors "bouncely/internal/reservations/errors"
	"bouncely/internal/reservations/lifecycle"
	apperrors "bouncely/pkg/errors"
	"bouncely/pkg/model"
)

// audiences lists who hears about each action.
var audiences = map[lifecycle.Action][]notifications.Audience{
	lifecycle.ActionApprove:          {notifications.AudienceGuest},
	lifecycle.ActionReject:           {notifications.AudienceGuest},
	lifecycle.ActionWithdraw:         {notifications.AudienceHost},
	lifecycle.ActionAdminOverride:    {notifications.AudienceGuest, notifications.AudienceHost},
	lifecycle.ActionPaymentSucceeded: {notifications.AudienceGuest, notifications.AudienceHost},
	lifecycle.ActionSweepTimeout:     {notifications.AudienceGuest, notifications.AudienceHost},
	lifecycle.ActionEventDatePassed:  {notifications.AudienceGuest, notifications.AudienceHost},
}

func (s *reservationService) Approve(ctx context.Context, id string, actor model.Actor) (*model.ActionResult, error) {
	return s.act(ctx, id, lifecycle.ActionApprove, lifecycle.Input{Actor: actor}, "")
}

func (s *reservationService) Reject(ctx context.Context, id string, actor model.Actor) (*model.ActionResult, error) {
	return s.act(ctx, id, lifecycle.ActionReject, lifecycle.Input{Actor: actor}, "")
}

func (s *reservationService) Withdraw(ctx context.Context, id string, actor model.Actor) (*model.ActionResult, error) {
	return s.act(ctx, id, lifecycle.ActionWithdraw, lifecycle.Input{Actor: actor}, "")
}

func (s *reservationService) AdminCancel(ctx context.Context, id string, actor model.Actor) (*model.ActionResult, error) {
	return s.act(ctx, id, lifecycle.ActionAdminOverride, lifecycle.Input{Actor: actor}, "")
}

// ConfirmPayment is called by the payment collaborator. A replay of the
// payment that already confirmed the reservation returns the reservation
// unchanged.
func (s *reservationService) ConfirmPayment(ctx context.Context, id string, paidAmount float64, paymentRef string) (*model.ActionResult, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}

	if reservation.Status == model.StatusConfirmed && paymentRef != "" && reservation.PaymentReference == paymentRef {
		s.cfg.Log.Info("Duplicate payment notification ignored", "id", id, "payment_reference", paymentRef)
		return model.NewActionResult(reservation, nil), nil
	}

	in := lifecycle.Input{Actor: model.PaymentActor, PaidAmount: paidAmount}
	return s.apply(ctx, reservation, lifecycle.ActionPaymentSucceeded, in, paymentRef)
}

func (s *reservationService) act(ctx context.Context, id string, action lifecycle.Action, in lifecycle.Input, paymentRef string) (*model.ActionResult, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}

	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id)
	}
	return s.apply(ctx, reservation, action, in, paymentRef)
}

// apply runs the state machine, persists with compare-and-set, then notifies
// and publishes. Nothing is written when the state machine refuses.
func (s *reservationService) apply(ctx context.Context, reservation *model.Reservation, action lifecycle.Action, in lifecycle.Input, paymentRef string) (*model.ActionResult, error) {
	updated, err := s.transition(ctx, reservation, action, in, paymentRef)
	if err != nil {
		return nil, s.mapTransitionError(err, reservation, action, in)
	}

	outcomes := s.announce(ctx, action, updated, reservation.Status)
	return model.NewActionResult(updated, outcomes), nil
}

// transition returns a copy of reservation with the change applied, or the
// raw domain error.
func (s *reservationService) transition(ctx context.Context, reservation *model.Reservation, action lifecycle.Action, in lifecycle.Input, paymentRef string) (*model.Reservation, error) {
	if in.Now.IsZero() {
		in.Now = s.now()
	}

	to, err := lifecycle.Next(reservation, action, in)
	if err != nil {
		return nil, err
	}

	change := model.StatusChange{
		To:               to,
		At:               in.Now,
		ActorID:          in.Actor.UserID,
		Action:           string(action),
		PaymentReference: paymentRef,
	}
	if err := s.repo.CompareAndSetStatus(ctx, reservation.ID, reservation.Status, change); err != nil {
		return nil, err
	}

	updated := *reservation
	change.Apply(&updated)

	s.cfg.Log.Info("Reservation status changed",
		"id", updated.ID,
		"action", action,
		"from", reservation.Status,
		"to", updated.Status,
		"actor_id", in.Actor.UserID,
	)
	return &updated, nil
}

func (s *reservationService) announce(ctx context.Context, action lifecycle.Action, r *model.Reservation, previous model.ReservationStatus) []model.NotificationOutcome {
	eventType := action.EventType()

	var outcomes []model.NotificationOutcome
	for _, audience := range audiences[action] {
		outcomes = append(outcomes, s.notify(ctx, eventType, r, audience)...)
	}
	s.events.Publish(ctx, eventType, r, previous)
	return outcomes
}

func (s *reservationService) notify(ctx context.Context, eventType string, r *model.Reservation, audience notifications.Audience) []model.NotificationOutcome {
	recipient := r.GuestID
	if audience == notifications.AudienceHost {
		recipient = r.HostID
	}

	outcomes := s.notifier.Notify(ctx, notifications.Recipient{
		UserID:  recipient,
		Content: notifications.ReservationContent(eventType, r, audience, s.cfg.PublicBaseURL),
	})
	if notifications.Failed(outcomes) {
		s.cfg.Log.Warn("Reservation notification partially failed",
			"id", r.ID,
			"type", eventType,
			"recipient_id", recipient,
		)
	}
	return outcomes
}

func (s *reservationService) mapTransitionError(err error, r *model.Reservation, action lifecycle.Action, in lifecycle.Input) error {
	switch {
	case errors.Is(err, reservationserrors.ErrForbidden):
		s.cfg.Log.Warn("Reservation action forbidden", "id", r.ID, "action", action, "actor_id", in.Actor.UserID)
		return apperrors.Forbidden("You are not allowed to " + string(action) + " this reservation").WithCause(err)
	case errors.Is(err, reservationserrors.ErrPaymentAmountMismatch):
		s.cfg.Log.Warn("Payment amount mismatch", "id", r.ID, "expected", r.TotalAmount, "paid", in.PaidAmount)
		return apperrors.PaymentAmountMismatch(r.TotalAmount, in.PaidAmount).WithCause(err)
	case errors.Is(err, reservationserrors.ErrStatusConflict):
		s.cfg.Log.Warn("Reservation changed concurrently", "id", r.ID, "action", action)
		return apperrors.InvalidStateTransition("Reservation has already been processed", string(r.Status), string(action)).WithCause(err)
	case errors.Is(err, reservationserrors.ErrInvalidStateTransition):
		return apperrors.InvalidStateTransition("Cannot "+string(action)+" a "+string(r.Status)+" reservation", string(r.Status), string(action)).WithCause(err)
	case errors.Is(err, reservationserrors.ErrNotFound):
		return apperrors.NotFoundWithID("Reservation", r.ID)
	default:
		s.cfg.Log.Error("Failed to update reservation status", "id", r.ID, "action", action, "error", err)
		return apperrors.Internal("Failed to update reservation", err)
	}
}
