// Package lifecycle holds the reservation state machine. It is pure: it
// decides the next status and never writes anything.
package lifecycle

import (
	"fmt"
	"time"

	reservationserrors "bouncely/internal/reservations/errors"
	"bouncely/pkg/model"
	"bouncely/pkg/pricing"
)

type Action string

const (
	ActionApprove          Action = "approve"
	ActionReject           Action = "reject"
	ActionWithdraw         Action = "withdraw"
	ActionPaymentSucceeded Action = "payment_succeeded"
	ActionSweepTimeout     Action = "sweep_timeout"
	ActionEventDatePassed  Action = "event_date_passed"
	ActionAdminOverride    Action = "admin_override"
)

var transitions = map[model.ReservationStatus]map[Action]model.ReservationStatus{
	model.StatusPending: {
		ActionApprove:       model.StatusAwaitingPayment,
		ActionReject:        model.StatusCancelled,
		ActionWithdraw:      model.StatusCancelled,
		ActionAdminOverride: model.StatusCancelled,
	},
	model.StatusAwaitingPayment: {
		ActionPaymentSucceeded: model.StatusConfirmed,
		ActionSweepTimeout:     model.StatusExpired,
		ActionAdminOverride:    model.StatusCancelled,
	},
	model.StatusConfirmed: {
		ActionEventDatePassed: model.StatusCompleted,
		ActionAdminOverride:   model.StatusCancelled,
	},
}

var eventTypes = map[Action]string{
	ActionApprove:          model.EventReservationApproved,
	ActionReject:           model.EventReservationRejected,
	ActionWithdraw:         model.EventReservationWithdrawn,
	ActionPaymentSucceeded: model.EventReservationConfirmed,
	ActionSweepTimeout:     model.EventReservationExpired,
	ActionEventDatePassed:  model.EventReservationCompleted,
	ActionAdminOverride:    model.EventReservationCancelled,
}

// EventType is the published event name for a successful action.
func (a Action) EventType() string {
	return eventTypes[a]
}

// Input carries what the guards need. Only the fields relevant to the action
// are read.
type Input struct {
	Actor      model.Actor
	Now        time.Time
	PaidAmount float64
	TTL        time.Duration
}

// Next validates action against r and returns the status r should move to.
// Authorization is checked before the transition table so callers without
// rights learn nothing about the reservation's state.
func Next(r *model.Reservation, action Action, in Input) (model.ReservationStatus, error) {
	if err := authorize(r, action, in.Actor); err != nil {
		return r.Status, err
	}

	to, ok := Target(r.Status, action)
	if !ok {
		return r.Status, fmt.Errorf("%w: cannot %s a %s reservation",
			reservationserrors.ErrInvalidStateTransition, action, r.Status)
	}

	if err := precondition(r, action, in); err != nil {
		return r.Status, err
	}
	return to, nil
}

// Target looks up the transition table without evaluating guards.
func Target(from model.ReservationStatus, action Action) (model.ReservationStatus, bool) {
	to, ok := transitions[from][action]
	return to, ok
}

// CanTransition reports whether some action moves from to to.
func CanTransition(from, to model.ReservationStatus) bool {
	for _, target := range transitions[from] {
		if target == to {
			return true
		}
	}
	return false
}

func authorize(r *model.Reservation, action Action, actor model.Actor) error {
	var allowed bool
	switch action {
	case ActionApprove, ActionReject:
		allowed = actor.UserID != "" && actor.UserID == r.HostID
	case ActionWithdraw:
		allowed = actor.UserID != "" && actor.UserID == r.GuestID
	case ActionPaymentSucceeded:
		allowed = actor.Role == model.RolePayment
	case ActionSweepTimeout, ActionEventDatePassed:
		allowed = actor.Role == model.RoleSystem
	case ActionAdminOverride:
		allowed = actor.IsAdmin()
	default:
		return fmt.Errorf("%w: unknown action %q", reservationserrors.ErrInvalidStateTransition, action)
	}

	if !allowed {
		return fmt.Errorf("%w: %s", reservationserrors.ErrForbidden, action)
	}
	return nil
}

func precondition(r *model.Reservation, action Action, in Input) error {
	switch action {
	case ActionPaymentSucceeded:
		if !pricing.Equal(in.PaidAmount, r.TotalAmount) {
			return fmt.Errorf("%w: expected %s, got %s", reservationserrors.ErrPaymentAmountMismatch,
				pricing.Format(r.TotalAmount), pricing.Format(in.PaidAmount))
		}
	case ActionSweepTimeout:
		if in.Now.Sub(r.StatusChangedAt) <= in.TTL {
			return fmt.Errorf("%w: payment window has not elapsed", reservationserrors.ErrInvalidStateTransition)
		}
	case ActionEventDatePassed:
		if !in.Now.After(r.EndDate) {
			return fmt.Errorf("%w: event has not ended", reservationserrors.ErrInvalidStateTransition)
		}
	}
	return nil
}
