package email

import "errors"

var (
	// ErrFailedToSendEmail is returned when the underlying provider rejects or
	// fails to deliver a message.
	ErrFailedToSendEmail = errors.New("failed to send email")

	// ErrInvalidConfig is returned when the sender configuration is incomplete.
	ErrInvalidConfig = errors.New("invalid email configuration")

	// ErrInvalidParams is returned when the send parameters fail validation.
	ErrInvalidParams = errors.New("invalid email parameters")
)
