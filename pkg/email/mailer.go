package email

import (
	"context"
	"errors"
	"net/mail"
	"strings"
)

// Config holds Postmark credentials and sender identity.
type Config struct {
	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	SenderEmail          string `env:"EMAIL_SENDER,required"`
	SupportEmail         string `env:"EMAIL_SUPPORT,required"`
}

// Validate checks that the configuration is sufficient to send email.
func (c Config) Validate() error {
	if c.PostmarkServerToken == "" || c.PostmarkAccountToken == "" {
		return errors.Join(ErrInvalidConfig, errors.New("postmark tokens are required"))
	}
	if _, err := mail.ParseAddress(c.SenderEmail); err != nil {
		return errors.Join(ErrInvalidConfig, errors.New("sender email is invalid"))
	}
	if _, err := mail.ParseAddress(c.SupportEmail); err != nil {
		return errors.Join(ErrInvalidConfig, errors.New("support email is invalid"))
	}
	return nil
}

// SendEmailParams describes a single transactional message.
type SendEmailParams struct {
	SendTo   string
	Subject  string
	BodyHTML string
	Tag      string
}

// Validate checks the parameters before handing them to a provider.
func (p SendEmailParams) Validate() error {
	if _, err := mail.ParseAddress(p.SendTo); err != nil {
		return errors.Join(ErrInvalidParams, errors.New("recipient address is invalid"))
	}
	if strings.TrimSpace(p.Subject) == "" {
		return errors.Join(ErrInvalidParams, errors.New("subject is required"))
	}
	if strings.TrimSpace(p.BodyHTML) == "" {
		return errors.Join(ErrInvalidParams, errors.New("body is required"))
	}
	return nil
}

// EmailSender delivers transactional email.
type EmailSender interface {
	SendEmail(ctx context.Context, params SendEmailParams) error
}
