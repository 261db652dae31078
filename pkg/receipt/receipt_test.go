package receipt

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"bouncely/pkg/model"
)

func paidReservation() *model.Reservation {
	start := time.Date(2026, 7, 4, 10, 0, 0, 0, time.UTC)
	return &model.Reservation{
		ID:               "665f1c2ab9d5e1a0c8a1b2c3",
		ListingID:        "665f1c2ab9d5e1a0c8a1b2c4",
		StartDate:        start,
		EndDate:          start.Add(24 * time.Hour),
		PricingModel:     model.PricingDaily,
		DurationUnits:    1,
		UnitPrice:        100,
		TotalAmount:      110,
		ServiceFee:       10,
		HostPayout:       100,
		Status:           model.StatusConfirmed,
		PaymentReference: "pay_123",
	}
}

func TestBuild(t *testing.T) {
	r := paidReservation()

	data, name, err := Build(r, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if name != "receipt-"+r.ID+".pdf" {
		t.Errorf("file name = %q", name)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		t.Errorf("output is not a PDF, starts with %q", data[:min(8, len(data))])
	}
}

func TestBuild_RequiresPayment(t *testing.T) {
	for _, status := range []model.ReservationStatus{model.StatusPending, model.StatusAwaitingPayment, model.StatusCancelled, model.StatusExpired} {
		r := paidReservation()
		r.Status = status

		if _, _, err := Build(r, time.Now()); !errors.Is(err, ErrNotPaid) {
			t.Errorf("status %s: error = %v, want ErrNotPaid", status, err)
		}
	}

	r := paidReservation()
	r.Status = model.StatusCompleted
	if _, _, err := Build(r, time.Now()); err != nil {
		t.Errorf("completed reservation should render, got %v", err)
	}
}

func TestUnitLabel(t *testing.T) {
	if got := unitLabel(model.PricingHourly, 3); got != "hours" {
		t.Errorf("unitLabel(hourly, 3) = %q", got)
	}
	if got := unitLabel(model.PricingDaily, 1); got != "day" {
		t.Errorf("unitLabel(daily, 1) = %q", got)
	}
}
