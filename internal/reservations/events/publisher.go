package events

import (
	"context"
	"time"

	"bouncely/pkg/kafka"
	"bouncely/pkg/logger"
	"bouncely/pkg/model"

	"github.com/google/uuid"
)

const schemaVersion = "1"

// Publisher announces reservation changes. Publishing is fire and forget:
// the store is the source of truth and failures are only logged.
type Publisher interface {
	Publish(ctx context.Context, eventType string, r *model.Reservation, previous model.ReservationStatus)
}

type KafkaPublisher struct {
	producer kafka.Publisher
	log      *logger.Logger
	source   string
	clock    func() time.Time
}

func NewKafkaPublisher(producer kafka.Publisher, log *logger.Logger, source string) *KafkaPublisher {
	return &KafkaPublisher{
		producer: producer,
		log:      log,
		source:   source,
		clock:    time.Now,
	}
}

func (p *KafkaPublisher) Publish(ctx context.Context, eventType string, r *model.Reservation, previous model.ReservationStatus) {
	event := NewEvent(eventType, r, previous, p.clock())

	// Keyed by reservation so every event of one reservation lands on the
	// same partition in order.
	msg, err := kafka.NewMessage().
		WithKey(r.ID).
		WithValue(event).
		WithEventID(event.EventID).
		WithEventType(eventType).
		WithSchemaVersion(schemaVersion).
		WithSource(p.source).
		WithTimestamp(event.OccurredAt).
		Build()
	if err != nil {
		p.log.Error("failed to encode reservation event", "reservation_id", r.ID, "type", eventType, "error", err)
		return
	}

	if err := p.producer.Publish(context.WithoutCancel(ctx), msg); err != nil {
		p.log.Warn("failed to publish reservation event",
			"reservation_id", r.ID,
			"type", eventType,
			"event_id", event.EventID,
			"error", err,
		)
	}
}

func NewEvent(eventType string, r *model.Reservation, previous model.ReservationStatus, at time.Time) model.ReservationEvent {
	return model.ReservationEvent{
		EventID:        uuid.NewString(),
		Type:           eventType,
		ReservationID:  r.ID,
		ListingID:      r.ListingID,
		GuestID:        r.GuestID,
		HostID:         r.HostID,
		Status:         r.Status,
		PreviousStatus: previous,
		TotalAmount:    r.TotalAmount,
		OccurredAt:     at.UTC(),
	}
}

// Nop discards events. Used by jobs that run without a broker.
type Nop struct{}

func (Nop) Publish(context.Context, string, *model.Reservation, model.ReservationStatus) {}
