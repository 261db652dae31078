package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"bouncely/internal/notifications/channel"
	notificationserrors "bouncely/internal/notifications/errors"
	usersrepo "bouncely/internal/users/repository"
	"bouncely/pkg/logger"
	"bouncely/pkg/model"
)

// Recipient pairs a user with the content rendered for them.
type Recipient struct {
	UserID  string
	Content model.NotificationContent
}

// Notifier is what domain services depend on. Notify never fails: every
// problem is reported as an unsuccessful outcome.
type Notifier interface {
	Notify(ctx context.Context, recipients ...Recipient) []model.NotificationOutcome
}

type Dispatcher struct {
	users    usersrepo.UserRepository
	channels []channel.Channel
	timeout  time.Duration
	log      *logger.Logger
}

func NewDispatcher(users usersrepo.UserRepository, log *logger.Logger, timeout time.Duration, channels ...channel.Channel) *Dispatcher {
	return &Dispatcher{
		users:    users,
		channels: channels,
		timeout:  timeout,
		log:      log,
	}
}

// Notify delivers to every recipient on every channel concurrently. Each
// lookup and each channel send gets its own timeout. The caller's
// cancellation is ignored so a committed write is still announced after a
// client disconnects.
func (d *Dispatcher) Notify(ctx context.Context, recipients ...Recipient) []model.NotificationOutcome {
	ctx = context.WithoutCancel(ctx)

	outcomes := make([]model.NotificationOutcome, len(recipients)*len(d.channels))
	var wg sync.WaitGroup

	for i, recipient := range recipients {
		wg.Add(1)
		go func(i int, recipient Recipient) {
			defer wg.Done()
			d.notifyOne(ctx, recipient, outcomes[i*len(d.channels):(i+1)*len(d.channels)])
		}(i, recipient)
	}
	wg.Wait()

	return outcomes
}

func (d *Dispatcher) notifyOne(ctx context.Context, recipient Recipient, outcomes []model.NotificationOutcome) {
	user, err := d.lookup(ctx, recipient.UserID)
	if err != nil {
		d.log.Warn("notification recipient lookup failed",
			"recipient_id", recipient.UserID,
			"type", recipient.Content.Type,
			"error", err,
		)
		for i, ch := range d.channels {
			outcomes[i] = model.NotificationOutcome{
				Channel:     ch.Name(),
				RecipientID: recipient.UserID,
				Error:       err.Error(),
			}
		}
		return
	}

	var wg sync.WaitGroup
	for i, ch := range d.channels {
		wg.Add(1)
		go func(i int, ch channel.Channel) {
			defer wg.Done()
			outcomes[i] = d.send(ctx, ch, user, recipient.Content)
		}(i, ch)
	}
	wg.Wait()
}

func (d *Dispatcher) lookup(ctx context.Context, userID string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	user, err := d.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, usersrepo.ErrNotFound) {
			return nil, notificationserrors.ErrRecipientNotFound
		}
		return nil, fmt.Errorf("recipient lookup failed: %w", err)
	}
	if user.ID == "" {
		user.ID = userID
	}
	return user, nil
}

func (d *Dispatcher) send(ctx context.Context, ch channel.Channel, user *model.User, content model.NotificationContent) model.NotificationOutcome {
	outcome := model.NotificationOutcome{Channel: ch.Name(), RecipientID: user.ID}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("channel panicked: %v", r)
			}
		}()
		done <- ch.Send(ctx, user, content)
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = fmt.Errorf("notification timed out after %s", d.timeout)
	}

	switch {
	case err == nil:
		outcome.Success = true
	case errors.Is(err, notificationserrors.ErrChannelSkipped):
		outcome.Skipped = true
	default:
		outcome.Error = err.Error()
		d.log.Warn("notification delivery failed",
			"channel", ch.Name(),
			"recipient_id", user.ID,
			"type", content.Type,
			"error", err,
		)
	}
	return outcome
}

// Failed reports whether any outcome is a delivery failure. Skipped channels
// are not failures.
func Failed(outcomes []model.NotificationOutcome) bool {
	for _, o := range outcomes {
		if !o.Success && !o.Skipped {
			return true
		}
	}
	return false
}
