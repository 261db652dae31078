package payments

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"bouncely/internal/reservations/service"
	"bouncely/internal/reservations/validator"
	apperrors "bouncely/pkg/errors"
	"bouncely/pkg/kafka"
	"bouncely/pkg/logger"
	"bouncely/pkg/model"
)

type mockReservationService struct {
	service.ReservationService
	confirmPaymentFunc func(ctx context.Context, id string, paid float64, ref string) (*model.ActionResult, error)
}

func (m *mockReservationService) ConfirmPayment(ctx context.Context, id string, paid float64, ref string) (*model.ActionResult, error) {
	return m.confirmPaymentFunc(ctx, id, paid, ref)
}

func paymentMessage(t *testing.T, p model.PaymentNotification) kafka.Message {
	t.Helper()
	raw, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return kafka.Message{Key: p.ReservationID, Value: raw, Headers: map[string]string{}}
}

func newHandler(confirm func(ctx context.Context, id string, paid float64, ref string) (*model.ActionResult, error)) *Handler {
	return NewHandler(&mockReservationService{confirmPaymentFunc: confirm}, validator.NewReservationValidator(logger.Discard()), logger.Discard())
}

func TestHandle_Confirms(t *testing.T) {
	var gotID, gotRef string
	var gotAmount float64
	h := newHandler(func(ctx context.Context, id string, paid float64, ref string) (*model.ActionResult, error) {
		gotID, gotAmount, gotRef = id, paid, ref
		return model.NewActionResult(&model.Reservation{ID: id, Status: model.StatusConfirmed}, nil), nil
	})

	msg := paymentMessage(t, model.PaymentNotification{ReservationID: "r1", Amount: 110, PaymentReference: "pay_1"})
	if err := h.Handle(context.Background(), msg); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}
	if gotID != "r1" || gotAmount != 110 || gotRef != "pay_1" {
		t.Errorf("ConfirmPayment(%q, %v, %q)", gotID, gotAmount, gotRef)
	}
}

func TestHandle_Classification(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType kafka.ErrorType
	}{
		{"amount mismatch", apperrors.PaymentAmountMismatch(110, 109.99), kafka.ErrorTypePermanent},
		{"unknown reservation", apperrors.NotFoundWithID("Reservation", "r1"), kafka.ErrorTypePermanent},
		{"expired before payment", apperrors.InvalidStateTransition("Cannot confirm an expired reservation", "expired", "payment_succeeded"), kafka.ErrorTypePermanent},
		{"store failure", apperrors.Internal("Failed to update reservation", errors.New("mongo down")), kafka.ErrorTypeTransient},
		{"store timeout", apperrors.Timeout("slow"), kafka.ErrorTypeTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(func(ctx context.Context, id string, paid float64, ref string) (*model.ActionResult, error) {
				return nil, tt.err
			})

			err := h.Handle(context.Background(), paymentMessage(t, model.PaymentNotification{ReservationID: "r1", Amount: 109.99, PaymentReference: "pay_1"}))
			if got := kafka.ClassifyError(err); got != tt.wantType {
				t.Errorf("ClassifyError() = %v, want %v (err: %v)", got, tt.wantType, err)
			}
		})
	}
}

func TestHandle_BadPayloads(t *testing.T) {
	called := false
	h := newHandler(func(ctx context.Context, id string, paid float64, ref string) (*model.ActionResult, error) {
		called = true
		return nil, nil
	})

	msgs := []kafka.Message{
		{Value: []byte("{not json")},
		paymentMessage(t, model.PaymentNotification{ReservationID: "r1", Amount: 0, PaymentReference: "pay_1"}),
		paymentMessage(t, model.PaymentNotification{ReservationID: "", Amount: 110, PaymentReference: "pay_1"}),
		paymentMessage(t, model.PaymentNotification{ReservationID: "r1", Amount: 110, PaymentReference: "bad ref!"}),
	}

	for i, msg := range msgs {
		err := h.Handle(context.Background(), msg)
		if kafka.ClassifyError(err) != kafka.ErrorTypePermanent {
			t.Errorf("message %d: err = %v, want permanent", i, err)
		}
	}
	if called {
		t.Error("ConfirmPayment should not be called for invalid payloads")
	}
}
