package errors

import "errors"

var (
	// ErrChannelSkipped is returned by a channel that has nothing to deliver
	// to, such as SMS for a user without a phone number.
	ErrChannelSkipped = errors.New("channel skipped")

	ErrRecipientNotFound = errors.New("notification recipient not found")
)
