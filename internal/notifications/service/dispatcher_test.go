package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	notificationserrors "bouncely/internal/notifications/errors"
	usersrepo "bouncely/internal/users/repository"
	"bouncely/pkg/logger"
	"bouncely/pkg/model"
)

type mockUserRepo struct {
	findByIDFunc func(ctx context.Context, id string) (*model.User, error)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.User{ID: id, Email: id + "@example.com"}, nil
}

type mockChannel struct {
	name     string
	sendFunc func(ctx context.Context, user *model.User, content model.NotificationContent) error
}

func (m *mockChannel) Name() string { return m.name }

func (m *mockChannel) Send(ctx context.Context, user *model.User, content model.NotificationContent) error {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, user, content)
	}
	return nil
}

func okChannel(name string) *mockChannel { return &mockChannel{name: name} }

func TestNotify_AllChannelsSucceed(t *testing.T) {
	d := NewDispatcher(&mockUserRepo{}, logger.Discard(), time.Second, okChannel(model.ChannelEmail), okChannel(model.ChannelInApp))

	outcomes := d.Notify(context.Background(),
		Recipient{UserID: "host-1", Content: model.NotificationContent{Type: model.EventReservationRequested}},
	)

	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	for _, o := range outcomes {
		if !o.Success || o.RecipientID != "host-1" {
			t.Errorf("unexpected outcome %+v", o)
		}
	}
	if Failed(outcomes) {
		t.Error("Failed() should be false")
	}
}

func TestNotify_ChannelFailureIsReported(t *testing.T) {
	email := &mockChannel{name: model.ChannelEmail, sendFunc: func(ctx context.Context, user *model.User, content model.NotificationContent) error {
		return errors.New("smtp relay refused")
	}}
	d := NewDispatcher(&mockUserRepo{}, logger.Discard(), time.Second, email, okChannel(model.ChannelInApp))

	outcomes := d.Notify(context.Background(), Recipient{UserID: "guest-1"})

	if outcomes[0].Success || !strings.Contains(outcomes[0].Error, "smtp relay refused") {
		t.Errorf("expected email failure, got %+v", outcomes[0])
	}
	if !outcomes[1].Success {
		t.Errorf("in-app should still succeed, got %+v", outcomes[1])
	}
	if !Failed(outcomes) {
		t.Error("Failed() should be true")
	}
}

func TestNotify_TimeoutIsAFailedOutcome(t *testing.T) {
	slow := &mockChannel{name: model.ChannelEmail, sendFunc: func(ctx context.Context, user *model.User, content model.NotificationContent) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	}}
	d := NewDispatcher(&mockUserRepo{}, logger.Discard(), 20*time.Millisecond, slow)

	start := time.Now()
	outcomes := d.Notify(context.Background(), Recipient{UserID: "guest-1"})

	if elapsed := time.Since(start); elapsed > 150*time.Millisecond {
		t.Errorf("Notify should return at the timeout, took %s", elapsed)
	}
	if outcomes[0].Success || !strings.Contains(outcomes[0].Error, "timed out") {
		t.Errorf("expected timeout outcome, got %+v", outcomes[0])
	}
}

func TestNotify_SkippedChannelIsNotAFailure(t *testing.T) {
	sms := &mockChannel{name: model.ChannelSMS, sendFunc: func(ctx context.Context, user *model.User, content model.NotificationContent) error {
		return notificationserrors.ErrChannelSkipped
	}}
	d := NewDispatcher(&mockUserRepo{}, logger.Discard(), time.Second, sms)

	outcomes := d.Notify(context.Background(), Recipient{UserID: "guest-1"})

	if !outcomes[0].Skipped || outcomes[0].Success {
		t.Errorf("expected skipped outcome, got %+v", outcomes[0])
	}
	if Failed(outcomes) {
		t.Error("skipped channels must not count as failures")
	}
}

func TestNotify_PanickingChannelIsContained(t *testing.T) {
	bad := &mockChannel{name: model.ChannelEmail, sendFunc: func(ctx context.Context, user *model.User, content model.NotificationContent) error {
		panic("template missing")
	}}
	d := NewDispatcher(&mockUserRepo{}, logger.Discard(), time.Second, bad)

	outcomes := d.Notify(context.Background(), Recipient{UserID: "guest-1"})

	if outcomes[0].Success || !strings.Contains(outcomes[0].Error, "panicked") {
		t.Errorf("expected panic outcome, got %+v", outcomes[0])
	}
}

func TestNotify_UnknownRecipient(t *testing.T) {
	users := &mockUserRepo{findByIDFunc: func(ctx context.Context, id string) (*model.User, error) {
		return nil, usersrepo.ErrNotFound
	}}
	d := NewDispatcher(users, logger.Discard(), time.Second, okChannel(model.ChannelEmail), okChannel(model.ChannelInApp))

	outcomes := d.Notify(context.Background(), Recipient{UserID: "ghost"})

	if len(outcomes) != 2 {
		t.Fatalf("expected one outcome per channel, got %d", len(outcomes))
	}
	for _, o := range outcomes {
		if o.Success || o.Error != notificationserrors.ErrRecipientNotFound.Error() {
			t.Errorf("unexpected outcome %+v", o)
		}
	}
}

func TestNotify_IgnoresCallerCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDispatcher(&mockUserRepo{}, logger.Discard(), time.Second, okChannel(model.ChannelInApp))
	outcomes := d.Notify(ctx, Recipient{UserID: "guest-1"})

	if !outcomes[0].Success {
		t.Errorf("delivery should not depend on the request context, got %+v", outcomes[0])
	}
}

func TestNotify_MultipleRecipientsKeepOrder(t *testing.T) {
	d := NewDispatcher(&mockUserRepo{}, logger.Discard(), time.Second, okChannel(model.ChannelEmail), okChannel(model.ChannelInApp))

	outcomes := d.Notify(context.Background(), Recipient{UserID: "guest-1"}, Recipient{UserID: "host-1"})

	want := []string{"guest-1", "guest-1", "host-1", "host-1"}
	for i, o := range outcomes {
		if o.RecipientID != want[i] {
			t.Errorf("outcome %d recipient = %s, want %s", i, o.RecipientID, want[i])
		}
	}
}

func TestReservationContent(t *testing.T) {
	r := &model.Reservation{
		ID:          "r1",
		StartDate:   time.Date(2026, 7, 4, 10, 0, 0, 0, time.UTC),
		TotalAmount: 110,
		HostPayout:  100,
	}

	approved := ReservationContent(model.EventReservationApproved, r, AudienceGuest, "https://bouncely.example/")
	if approved.ActionURL != "https://bouncely.example/reservations/r1" {
		t.Errorf("unexpected action url %q", approved.ActionURL)
	}
	if !strings.Contains(approved.Body, "$110.00") {
		t.Errorf("approved body should include the total, got %q", approved.Body)
	}

	hostConfirmed := ReservationContent(model.EventReservationConfirmed, r, AudienceHost, "https://bouncely.example")
	if !strings.Contains(hostConfirmed.Body, "$100.00") {
		t.Errorf("host confirmation should include the payout, got %q", hostConfirmed.Body)
	}
}
