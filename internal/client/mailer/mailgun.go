package mailer

import (
	"context"
	"fmt"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

type mailgunClient interface {
	NewMessage(from, subject, text string, to ...string) *mg.Message
	Send(ctx context.Context, m *mg.Message) (string, string, error)
}

type Mailgun struct {
	client  mailgunClient
	sender  string
	timeout time.Duration
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), sender: sender, timeout: 10 * time.Second}
}

func (m *Mailgun) Send(ctx context.Context, msg Message) error {
	if err := msg.check(); err != nil {
		return err
	}
	out := m.client.NewMessage(m.sender, msg.Subject, msg.Text, msg.To...)
	if msg.HTML != "" {
		out.SetHtml(msg.HTML)
	}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()
	if _, _, err := m.client.Send(ctx, out); err != nil {
		return fmt.Errorf("%w: %v", ErrSend, err)
	}
	return nil
}
