// Package mailer delivers transactional email for the scheduling workflows.
package mailer

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// Recipient is a single mailbox.
type Recipient struct {
	Name  string
	Email string
}

// Message is a rendered email ready for delivery.
type Message struct {
	To      []Recipient
	Subject string
	Text    string
	HTML    string
}

// ErrNoRecipients is returned when a message has nobody to deliver to.
var ErrNoRecipients = errors.New("mailer: message has no recipients")

// Mailer sends rendered messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// Validate checks the message is deliverable.
func (m Message) Validate() error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	for _, to := range m.To {
		if strings.TrimSpace(to.Email) == "" {
			return errors.New("mailer: recipient email is empty")
		}
	}
	if strings.TrimSpace(m.Subject) == "" {
		return errors.New("mailer: subject is empty")
	}
	return nil
}

// ConsoleMailer logs messages instead of delivering them. Used in development.
type ConsoleMailer struct {
	logger *zap.Logger
}

// NewConsoleMailer constructs a console mailer.
func NewConsoleMailer(logger *zap.Logger) *ConsoleMailer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleMailer{logger: logger}
}

// Send logs the message.
func (m *ConsoleMailer) Send(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	to := make([]string, 0, len(msg.To))
	for _, r := range msg.To {
		to = append(to, r.Email)
	}
	m.logger.Info("email",
		zap.Strings("to", to),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Text),
	)
	return nil
}
