package validator

import (
	"errors"
	"strings"
	"testing"
	"time"

	"bouncely/pkg/logger"
	"bouncely/pkg/model"
)

func TestValidateBookingRequest(t *testing.T) {
	v := NewReservationValidator(logger.Discard())
	start := time.Now().Add(48 * time.Hour)

	tests := []struct {
		name      string
		req       model.BookingRequest
		wantField string
	}{
		{
			name: "valid",
			req:  model.BookingRequest{ListingID: "507f1f77bcf86cd799439011", StartDate: start, DurationUnits: 2},
		},
		{
			name:      "missing listing",
			req:       model.BookingRequest{StartDate: start, DurationUnits: 1},
			wantField: "listing_id",
		},
		{
			name:      "listing id not an object id",
			req:       model.BookingRequest{ListingID: "listing-1", StartDate: start, DurationUnits: 1},
			wantField: "listing_id",
		},
		{
			name:      "zero duration",
			req:       model.BookingRequest{ListingID: "507f1f77bcf86cd799439011", StartDate: start},
			wantField: "duration_units",
		},
		{
			name:      "duration too long",
			req:       model.BookingRequest{ListingID: "507f1f77bcf86cd799439011", StartDate: start, DurationUnits: 721},
			wantField: "duration_units",
		},
		{
			name:      "missing start date",
			req:       model.BookingRequest{ListingID: "507f1f77bcf86cd799439011", DurationUnits: 1},
			wantField: "start_date",
		},
		{
			name: "special requests too long",
			req: model.BookingRequest{
				ListingID:       "507f1f77bcf86cd799439011",
				StartDate:       start,
				DurationUnits:   1,
				SpecialRequests: strings.Repeat("x", 1001),
			},
			wantField: "special_requests",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateBookingRequest(&tt.req)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verrs ValidationErrors
			if !errors.As(err, &verrs) {
				t.Fatalf("expected ValidationErrors, got %v", err)
			}
			if _, ok := verrs.Fields()[tt.wantField]; !ok {
				t.Errorf("expected error on %s, got %v", tt.wantField, verrs)
			}
		})
	}
}

func TestValidatePayment(t *testing.T) {
	v := NewReservationValidator(logger.Discard())

	valid := model.PaymentNotification{ReservationID: "r1", Amount: 110, PaymentReference: "pi_3NqLx2:attempt.1"}
	if err := v.ValidatePayment(&valid); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		name      string
		payment   model.PaymentNotification
		wantField string
	}{
		{"missing reservation", model.PaymentNotification{Amount: 1, PaymentReference: "p1"}, "reservation_id"},
		{"zero amount", model.PaymentNotification{ReservationID: "r1", PaymentReference: "p1"}, "amount"},
		{"negative amount", model.PaymentNotification{ReservationID: "r1", Amount: -5, PaymentReference: "p1"}, "amount"},
		{"reference with spaces", model.PaymentNotification{ReservationID: "r1", Amount: 1, PaymentReference: "p 1"}, "payment_reference"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verrs ValidationErrors
			if !errors.As(v.ValidatePayment(&tt.payment), &verrs) {
				t.Fatal("expected ValidationErrors")
			}
			if _, ok := verrs.Fields()[tt.wantField]; !ok {
				t.Errorf("expected error on %s, got %v", tt.wantField, verrs)
			}
		})
	}
}
