package postgres

import (
	"context"
	"fmt"

	"bouncely/pkg/logger"

	"github.com/jmoiron/sqlx"
)

// Statements are idempotent and applied in order inside one transaction.
var Statements = []string{
	`CREATE TABLE IF NOT EXISTS reservations (
		id                UUID PRIMARY KEY,
		listing_id        TEXT NOT NULL,
		guest_id          TEXT NOT NULL,
		host_id           TEXT NOT NULL,
		start_date        TIMESTAMPTZ NOT NULL,
		end_date          TIMESTAMPTZ NOT NULL,
		pricing_model     TEXT NOT NULL CHECK (pricing_model IN ('daily', 'hourly')),
		duration_units    INTEGER NOT NULL CHECK (duration_units BETWEEN 1 AND 720),
		unit_price        NUMERIC(12, 2) NOT NULL CHECK (unit_price > 0),
		total_amount      NUMERIC(12, 2) NOT NULL CHECK (total_amount >= 0),
		service_fee       NUMERIC(12, 2) NOT NULL CHECK (service_fee >= 0),
		host_payout       NUMERIC(12, 2) NOT NULL CHECK (host_payout >= 0),
		status            TEXT NOT NULL CHECK (status IN ('pending', 'awaiting_payment', 'confirmed', 'cancelled', 'completed', 'expired')),
		special_requests  TEXT NOT NULL DEFAULT '',
		created_date      TIMESTAMPTZ NOT NULL,
		status_changed_at TIMESTAMPTZ NOT NULL,
		confirmed_at      TIMESTAMPTZ,
		payment_reference TEXT NOT NULL DEFAULT '',
		cancelled_by      TEXT NOT NULL DEFAULT '',
		CHECK (end_date > start_date),
		CHECK (total_amount = host_payout + service_fee)
	)`,
	`CREATE INDEX IF NOT EXISTS reservations_status_changed_idx ON reservations (status, status_changed_at)`,
	`CREATE INDEX IF NOT EXISTS reservations_status_end_idx ON reservations (status, end_date)`,
	`CREATE INDEX IF NOT EXISTS reservations_guest_idx ON reservations (guest_id, created_date DESC)`,
	`CREATE INDEX IF NOT EXISTS reservations_host_idx ON reservations (host_id, created_date DESC)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS reservations_payment_reference_idx ON reservations (payment_reference) WHERE payment_reference <> ''`,
	`CREATE TABLE IF NOT EXISTS reservation_transitions (
		id             UUID PRIMARY KEY,
		reservation_id UUID NOT NULL REFERENCES reservations (id),
		from_status    TEXT NOT NULL,
		to_status      TEXT NOT NULL,
		action         TEXT NOT NULL,
		actor_id       TEXT NOT NULL DEFAULT '',
		occurred_at    TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS reservation_transitions_reservation_idx ON reservation_transitions (reservation_id, occurred_at)`,
}

func RunMigration(ctx context.Context, db *sqlx.DB, log *logger.Logger) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migration statement %d failed: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration: %w", err)
	}
	log.Info("Postgres migrations applied", "statements", len(Statements))
	return nil
}
