package kafka

import (
	"errors"
	"testing"
	"time"
)

func TestMessageBuilder_Build(t *testing.T) {
	at := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	msg, err := NewMessage().
		WithKey("reservation-1").
		WithValue(map[string]any{"status": "confirmed"}).
		WithEventType("reservation.confirmed").
		WithSource("reservations").
		WithTimestamp(at).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if msg.GetEventID() == "" {
		t.Error("expected generated event id")
	}
	if msg.GetEventType() != "reservation.confirmed" {
		t.Errorf("unexpected event type %q", msg.GetEventType())
	}
	if msg.Headers[HeaderTimestamp] != "2026-07-01T09:00:00Z" {
		t.Errorf("unexpected timestamp header %q", msg.Headers[HeaderTimestamp])
	}

	var decoded map[string]string
	if err := msg.DecodeValue(&decoded); err != nil || decoded["status"] != "confirmed" {
		t.Errorf("DecodeValue = %v, %v", decoded, err)
	}
}

func TestMessageBuilder_ReportsEncodingError(t *testing.T) {
	_, err := NewMessage().WithKey("k").WithValue(make(chan int)).Build()
	if err == nil {
		t.Fatal("expected encoding error")
	}
}

func TestMessage_RetryCount(t *testing.T) {
	msg := Message{}
	for i := 0; i < 11; i++ {
		msg.IncrementRetryCount()
	}
	if msg.GetRetryCount() != 11 {
		t.Errorf("expected retry count 11, got %d", msg.GetRetryCount())
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"nil", nil, ErrorTypeUnknown},
		{"tagged transient", NewTransientError("x", nil), ErrorTypeTransient},
		{"tagged permanent", NewPermanentError("x", nil), ErrorTypePermanent},
		{"network", errors.New("dial tcp: Connection Refused"), ErrorTypeTransient},
		{"unknown", errors.New("reservation not found"), ErrorTypePermanent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyError(tt.err); got != tt.want {
				t.Errorf("ClassifyError() = %v, want %v", got, tt.want)
			}
		})
	}

	if ShouldRetry(NewTransientError("x", nil), 3, 3) {
		t.Error("ShouldRetry must stop at max retries")
	}
}
