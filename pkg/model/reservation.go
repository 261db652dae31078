package model

import "time"

type ReservationStatus string

const (
	StatusPending         ReservationStatus = "pending"
	StatusAwaitingPayment ReservationStatus = "awaiting_payment"
	StatusConfirmed       ReservationStatus = "confirmed"
	StatusCancelled       ReservationStatus = "cancelled"
	StatusCompleted       ReservationStatus = "completed"
	StatusExpired         ReservationStatus = "expired"
)

var AllStatuses = []ReservationStatus{
	StatusPending,
	StatusAwaitingPayment,
	StatusConfirmed,
	StatusCancelled,
	StatusCompleted,
	StatusExpired,
}

func (s ReservationStatus) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition can leave s.
func (s ReservationStatus) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusExpired
}

type PricingModel string

const (
	PricingDaily  PricingModel = "daily"
	PricingHourly PricingModel = "hourly"
)

// UnitDuration is the wall-clock length of one billable unit.
func (p PricingModel) UnitDuration() time.Duration {
	if p == PricingHourly {
		return time.Hour
	}
	return 24 * time.Hour
}

type Reservation struct {
	ID               string            `json:"id,omitempty" bson:"_id,omitempty" db:"id"`
	ListingID        string            `json:"listing_id" bson:"listing_id" db:"listing_id"`
	GuestID          string            `json:"guest_id" bson:"guest_id" db:"guest_id"`
	HostID           string            `json:"host_id" bson:"host_id" db:"host_id"`
	StartDate        time.Time         `json:"start_date" bson:"start_date" db:"start_date"`
	EndDate          time.Time         `json:"end_date" bson:"end_date" db:"end_date"`
	PricingModel     PricingModel      `json:"pricing_model" bson:"pricing_model" db:"pricing_model"`
	DurationUnits    int               `json:"duration_units" bson:"duration_units" db:"duration_units"`
	UnitPrice        float64           `json:"unit_price" bson:"unit_price" db:"unit_price"`
	TotalAmount      float64           `json:"total_amount" bson:"total_amount" db:"total_amount"`
	ServiceFee       float64           `json:"service_fee" bson:"service_fee" db:"service_fee"`
	HostPayout       float64           `json:"host_payout" bson:"host_payout" db:"host_payout"`
	Status           ReservationStatus `json:"status" bson:"status" db:"status"`
	SpecialRequests  string            `json:"special_requests,omitempty" bson:"special_requests,omitempty" db:"special_requests"`
	CreatedDate      time.Time         `json:"created_date" bson:"created_date" db:"created_date"`
	StatusChangedAt  time.Time         `json:"status_changed_at" bson:"status_changed_at" db:"status_changed_at"`
	ConfirmedAt      *time.Time        `json:"confirmed_at,omitempty" bson:"confirmed_at,omitempty" db:"confirmed_at"`
	PaymentReference string            `json:"payment_reference,omitempty" bson:"payment_reference,omitempty" db:"payment_reference"`
	CancelledBy      string            `json:"cancelled_by,omitempty" bson:"cancelled_by,omitempty" db:"cancelled_by"`
}

// IsParticipant reports whether userID is the guest or the host.
func (r *Reservation) IsParticipant(userID string) bool {
	return userID != "" && (r.GuestID == userID || r.HostID == userID)
}

// StatusChange is everything written when a reservation moves between statuses.
type StatusChange struct {
	To               ReservationStatus
	At               time.Time
	ActorID          string
	Action           string
	PaymentReference string
}

// Apply copies the change onto r, mirroring what the store persists.
func (c StatusChange) Apply(r *Reservation) {
	r.Status = c.To
	r.StatusChangedAt = c.At
	switch c.To {
	case StatusConfirmed:
		at := c.At
		r.ConfirmedAt = &at
		r.PaymentReference = c.PaymentReference
	case StatusCancelled:
		r.CancelledBy = c.ActorID
	}
}

// ReservationTransition is the audit record written alongside every status change.
type ReservationTransition struct {
	ID            string            `json:"id,omitempty" bson:"_id,omitempty" db:"id"`
	ReservationID string            `json:"reservation_id" bson:"reservation_id" db:"reservation_id"`
	From          ReservationStatus `json:"from" bson:"from" db:"from_status"`
	To            ReservationStatus `json:"to" bson:"to" db:"to_status"`
	Action        string            `json:"action" bson:"action" db:"action"`
	ActorID       string            `json:"actor_id,omitempty" bson:"actor_id,omitempty" db:"actor_id"`
	OccurredAt    time.Time         `json:"occurred_at" bson:"occurred_at" db:"occurred_at"`
}

type BookingRequest struct {
	ListingID       string    `json:"listing_id" validate:"required,mongodb"`
	StartDate       time.Time `json:"start_date" validate:"required"`
	DurationUnits   int       `json:"duration_units" validate:"required,min=1,max=720"`
	SpecialRequests string    `json:"special_requests,omitempty" validate:"omitempty,max=1000"`
}

// ActionResult is returned by every mutating reservation operation. A failed
// notification never fails the operation; it sets PartialSuccess instead.
type ActionResult struct {
	Reservation    *Reservation          `json:"data"`
	Notifications  []NotificationOutcome `json:"notifications"`
	PartialSuccess bool                  `json:"partial_success"`
}

// NewActionResult derives PartialSuccess from the outcomes.
func NewActionResult(r *Reservation, outcomes []NotificationOutcome) *ActionResult {
	result := &ActionResult{Reservation: r, Notifications: outcomes}
	if result.Notifications == nil {
		result.Notifications = []NotificationOutcome{}
	}
	for _, o := range outcomes {
		if !o.Success && !o.Skipped {
			result.PartialSuccess = true
			break
		}
	}
	return result
}

// SweepResult summarises one batch run over time-driven transitions.
type SweepResult struct {
	Action       string `json:"action"`
	Examined     int    `json:"examined"`
	Transitioned int    `json:"transitioned"`
	Skipped      int    `json:"skipped"`
	Failed       int    `json:"failed"`
}

type Quote struct {
	ListingID     string       `json:"listing_id"`
	PricingModel  PricingModel `json:"pricing_model"`
	DurationUnits int          `json:"duration_units"`
	UnitPrice     float64      `json:"unit_price"`
	Subtotal      float64      `json:"subtotal"`
	ServiceFee    float64      `json:"service_fee"`
	Total         float64      `json:"total"`
	HostPayout    float64      `json:"host_payout"`
}
