// Package mailer delivers notification emails through EmailJS, Mailgun or
// plain SMTP.
package mailer

import (
	"context"
	"errors"
)

var (
	ErrNoRecipients = errors.New("no recipients specified")
	ErrSend         = errors.New("email delivery failed")
)

// Message is one email. Params feed template-based providers; the others
// ignore them.
type Message struct {
	To      []string
	Subject string
	Text    string
	HTML    string
	Params  map[string]any
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

func (m Message) check() error {
	if len(m.To) == 0 {
		return ErrNoRecipients
	}
	return nil
}
