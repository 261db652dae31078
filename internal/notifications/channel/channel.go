package channel

import (
	"context"
	"fmt"
	"time"

	notificationserrors "bouncely/internal/notifications/errors"
	"bouncely/internal/notifications/repository"
	"bouncely/pkg/kafka"
	"bouncely/pkg/model"
	"bouncely/pkg/sanitizer"
)

// Channel delivers one rendered notification to one user.
type Channel interface {
	Name() string
	Send(ctx context.Context, user *model.User, content model.NotificationContent) error
}

// Email hands the message to the mail sender through Kafka.
type Email struct {
	publisher kafka.Publisher
	source    string
}

func NewEmail(publisher kafka.Publisher, source string) *Email {
	return &Email{publisher: publisher, source: source}
}

func (c *Email) Name() string { return model.ChannelEmail }

func (c *Email) Send(ctx context.Context, user *model.User, content model.NotificationContent) error {
	if user.Email == "" {
		return notificationserrors.ErrChannelSkipped
	}

	msg, err := kafka.NewMessage().
		WithKey(user.ID).
		WithEventType("notification.email").
		WithSource(c.source).
		WithValue(model.EmailMessage{
			To:        user.Email,
			ToName:    user.FullName,
			Subject:   content.Subject,
			Body:      content.Body,
			ActionURL: content.ActionURL,
			Type:      content.Type,
		}).
		Build()
	if err != nil {
		return err
	}
	if err := c.publisher.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to queue email: %w", err)
	}
	return nil
}

// SMS hands a short text to the SMS sender through Kafka.
type SMS struct {
	publisher kafka.Publisher
	source    string
}

func NewSMS(publisher kafka.Publisher, source string) *SMS {
	return &SMS{publisher: publisher, source: source}
}

func (c *SMS) Name() string { return model.ChannelSMS }

func (c *SMS) Send(ctx context.Context, user *model.User, content model.NotificationContent) error {
	phone := sanitizer.NormalizePhone(user.Phone)
	if phone == "" || !sanitizer.SMSCapable(phone) {
		return notificationserrors.ErrChannelSkipped
	}

	body := content.Subject
	if content.ActionURL != "" {
		body += " " + content.ActionURL
	}

	msg, err := kafka.NewMessage().
		WithKey(user.ID).
		WithEventType("notification.sms").
		WithSource(c.source).
		WithValue(model.SMSMessage{To: phone, Body: body, Type: content.Type}).
		Build()
	if err != nil {
		return err
	}
	if err := c.publisher.Publish(ctx, msg); err != nil {
		return fmt.Errorf("failed to queue sms: %w", err)
	}
	return nil
}

type InApp struct {
	repo  repository.NotificationRepository
	clock func() time.Time
}

func NewInApp(repo repository.NotificationRepository) *InApp {
	return &InApp{repo: repo, clock: time.Now}
}

func (c *InApp) Name() string { return model.ChannelInApp }

func (c *InApp) Send(ctx context.Context, user *model.User, content model.NotificationContent) error {
	return c.repo.Create(ctx, &model.Notification{
		UserID:    user.ID,
		Type:      content.Type,
		Title:     content.Subject,
		Message:   content.Body,
		ActionURL: content.ActionURL,
		CreatedAt: c.clock().UTC().Truncate(time.Millisecond),
	})
}
