package model

import "time"

const (
	ChannelEmail = "email"
	ChannelSMS   = "sms"
	ChannelInApp = "in_app"
)

// Notification is an in-app notification record.
type Notification struct {
	ID        string    `json:"id,omitempty" bson:"_id,omitempty"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Type      string    `json:"type" bson:"type"`
	Title     string    `json:"title" bson:"title"`
	Message   string    `json:"message" bson:"message"`
	ActionURL string    `json:"action_url,omitempty" bson:"action_url,omitempty"`
	Read      bool      `json:"read" bson:"read"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

type NotificationOutcome struct {
	Channel     string `json:"channel"`
	RecipientID string `json:"recipient_id"`
	Success     bool   `json:"success"`
	Skipped     bool   `json:"skipped,omitempty"`
	Error       string `json:"error,omitempty"`
}

// EmailMessage is the payload handed to the email delivery collaborator.
type EmailMessage struct {
	To        string `json:"to"`
	ToName    string `json:"to_name,omitempty"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	ActionURL string `json:"action_url,omitempty"`
	Type      string `json:"type"`
}

// SMSMessage is the payload handed to the SMS delivery collaborator.
type SMSMessage struct {
	To   string `json:"to"`
	Body string `json:"body"`
	Type string `json:"type"`
}

// NotificationContent is rendered once per recipient and delivered through
// every channel.
type NotificationContent struct {
	Type      string
	Subject   string
	Body      string
	ActionURL string
}
