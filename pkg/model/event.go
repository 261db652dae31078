package model

import "time"

const (
	EventReservationRequested = "reservation.requested"
	EventReservationApproved  = "reservation.approved"
	EventReservationRejected  = "reservation.rejected"
	EventReservationWithdrawn = "reservation.withdrawn"
	EventReservationCancelled = "reservation.cancelled"
	EventReservationConfirmed = "reservation.confirmed"
	EventReservationExpired   = "reservation.expired"
	EventReservationCompleted = "reservation.completed"
)

// ReservationEvent is published after every successful create or transition.
type ReservationEvent struct {
	EventID        string            `json:"event_id"`
	Type           string            `json:"type"`
	ReservationID  string            `json:"reservation_id"`
	ListingID      string            `json:"listing_id"`
	GuestID        string            `json:"guest_id"`
	HostID         string            `json:"host_id"`
	Status         ReservationStatus `json:"status"`
	PreviousStatus ReservationStatus `json:"previous_status,omitempty"`
	TotalAmount    float64           `json:"total_amount"`
	OccurredAt     time.Time         `json:"occurred_at"`
}

// PaymentNotification is sent by the payment collaborator once a charge succeeds.
type PaymentNotification struct {
	ReservationID    string  `json:"reservation_id" validate:"required"`
	Amount           float64 `json:"amount" validate:"required,gt=0"`
	PaymentReference string  `json:"payment_reference" validate:"required,max=200,payment_reference"`
}
