package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	reservationserrors "bouncely/internal/reservations/errors"
	"bouncely/pkg/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const reservationColumns = `id, listing_id, guest_id, host_id, start_date, end_date, pricing_model,
	duration_units, unit_price, total_amount, service_fee, host_payout, status,
	special_requests, created_date, status_changed_at, confirmed_at, payment_reference, cancelled_by`

type postgresReservationRepository struct {
	db           *sqlx.DB
	readTimeout  time.Duration
	writeTimeout time.Duration
}

func NewPostgresReservationRepository(db *sqlx.DB, readTimeout, writeTimeout time.Duration) ReservationRepository {
	return &postgresReservationRepository{
		db:           db,
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

func (r *postgresReservationRepository) Create(ctx context.Context, reservation *model.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	reservation.ID = uuid.NewString()
	query := `
		INSERT INTO reservations (` + reservationColumns + `)
		VALUES (:id, :listing_id, :guest_id, :host_id, :start_date, :end_date, :pricing_model,
			:duration_units, :unit_price, :total_amount, :service_fee, :host_payout, :status,
			:special_requests, :created_date, :status_changed_at, :confirmed_at, :payment_reference, :cancelled_by)
	`
	if _, err := r.db.NamedExecContext(ctx, query, reservation); err != nil {
		reservation.ID = ""
		return fmt.Errorf("failed to create reservation: %w", err)
	}
	return nil
}

func (r *postgresReservationRepository) FindByID(ctx context.Context, id string) (*model.Reservation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	ctx, cancel := context.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	var reservation model.Reservation
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	if err := r.db.GetContext(ctx, &reservation, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, reservationserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}
	return &reservation, nil
}

func (r *postgresReservationRepository) FindByParticipant(ctx context.Context, filter ParticipantFilter, limit int, offset int64) ([]*model.Reservation, error) {
	where, args := participantWhere(filter)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT %s FROM reservations WHERE %s ORDER BY created_date DESC, id DESC LIMIT $%d OFFSET $%d`,
		reservationColumns, where, len(args)-1, len(args))

	return r.selectReservations(ctx, query, args...)
}

func (r *postgresReservationRepository) CountByParticipant(ctx context.Context, filter ParticipantFilter) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	where, args := participantWhere(filter)
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM reservations WHERE `+where, args...); err != nil {
		return 0, fmt.Errorf("failed to count reservations: %w", err)
	}
	return count, nil
}

func (r *postgresReservationRepository) ListByStatus(ctx context.Context, status model.ReservationStatus, limit int, offset int64) ([]*model.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE status = $1 ORDER BY created_date ASC, id ASC LIMIT $2 OFFSET $3`
	return r.selectReservations(ctx, query, status, limit, offset)
}

func (r *postgresReservationRepository) ListAwaitingPaymentBefore(ctx context.Context, cutoff time.Time, limit int, offset int64) ([]*model.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE status = $1 AND status_changed_at <= $2
		ORDER BY status_changed_at ASC, id ASC LIMIT $3 OFFSET $4`
	return r.selectReservations(ctx, query, model.StatusAwaitingPayment, cutoff, limit, offset)
}

func (r *postgresReservationRepository) ListConfirmedEndedBefore(ctx context.Context, now time.Time, limit int, offset int64) ([]*model.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE status = $1 AND end_date < $2
		ORDER BY end_date ASC, id ASC LIMIT $3 OFFSET $4`
	return r.selectReservations(ctx, query, model.StatusConfirmed, now, limit, offset)
}

func (r *postgresReservationRepository) CompareAndSetStatus(ctx context.Context, id string, from model.ReservationStatus, change model.StatusChange) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s", reservationserrors.ErrInvalidID, id)
	}

	ctx, cancel := context.WithTimeout(ctx, r.writeTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var confirmedAt *time.Time
	if change.To == model.StatusConfirmed {
		at := change.At
		confirmedAt = &at
	}
	var cancelledBy string
	if change.To == model.StatusCancelled {
		cancelledBy = change.ActorID
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE reservations
		SET status = $1,
			status_changed_at = $2,
			confirmed_at = COALESCE($3, confirmed_at),
			payment_reference = COALESCE(NULLIF($4, ''), payment_reference),
			cancelled_by = COALESCE(NULLIF($5, ''), cancelled_by)
		WHERE id = $6 AND status = $7
	`, change.To, change.At, confirmedAt, change.PaymentReference, cancelledBy, id, from)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		var exists bool
		if err := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM reservations WHERE id = $1)`, id); err != nil {
			return fmt.Errorf("failed to check reservation existence: %w", err)
		}
		if !exists {
			return reservationserrors.ErrNotFound
		}
		return fmt.Errorf("%w: expected %s", reservationserrors.ErrStatusConflict, from)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO reservation_transitions (id, reservation_id, from_status, to_status, action, actor_id, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.NewString(), id, from, change.To, change.Action, change.ActorID, change.At)
	if err != nil {
		return fmt.Errorf("failed to record reservation transition: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit status change: %w", err)
	}
	return nil
}

func (r *postgresReservationRepository) selectReservations(ctx context.Context, query string, args ...any) ([]*model.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, r.readTimeout)
	defer cancel()

	reservations := []*model.Reservation{}
	if err := r.db.SelectContext(ctx, &reservations, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query reservations: %w", err)
	}
	return reservations, nil
}

func participantWhere(filter ParticipantFilter) (string, []any) {
	column := "guest_id"
	if filter.Role == ParticipantHost {
		column = "host_id"
	}

	args := []any{filter.UserID}
	where := column + " = $1"
	if filter.Status != "" {
		args = append(args, filter.Status)
		where += " AND status = $2"
	}
	return where, args
}
