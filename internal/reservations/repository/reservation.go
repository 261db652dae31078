package repository

import (
	"context"
	"time"

	"bouncely/pkg/model"
)

type ParticipantRole string

const (
	ParticipantGuest ParticipantRole = "guest"
	ParticipantHost  ParticipantRole = "host"
)

func (p ParticipantRole) IsValid() bool {
	return p == ParticipantGuest || p == ParticipantHost
}

// ParticipantFilter selects the reservations a user takes part in, optionally
// narrowed to one status.
type ParticipantFilter struct {
	UserID string
	Role   ParticipantRole
	Status model.ReservationStatus
}

type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	FindByParticipant(ctx context.Context, filter ParticipantFilter, limit int, offset int64) ([]*model.Reservation, error)
	CountByParticipant(ctx context.Context, filter ParticipantFilter) (int64, error)
	ListByStatus(ctx context.Context, status model.ReservationStatus, limit int, offset int64) ([]*model.Reservation, error)
	// ListAwaitingPaymentBefore returns awaiting_payment reservations whose
	// status changed at or before cutoff, oldest first.
	ListAwaitingPaymentBefore(ctx context.Context, cutoff time.Time, limit int, offset int64) ([]*model.Reservation, error)
	// ListConfirmedEndedBefore returns confirmed reservations whose end date is
	// strictly before now, oldest first.
	ListConfirmedEndedBefore(ctx context.Context, now time.Time, limit int, offset int64) ([]*model.Reservation, error)
	// CompareAndSetStatus applies change only if the stored status is still
	// from. It returns ErrStatusConflict when another writer got there first
	// and ErrNotFound when the reservation does not exist. An audit
	// transition record is written atomically with the update.
	CompareAndSetStatus(ctx context.Context, id string, from model.ReservationStatus, change model.StatusChange) error
}
