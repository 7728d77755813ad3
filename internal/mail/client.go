// Package mail delivers report messages over SMTP with implicit TLS.
package mail

import (
	"bytes"
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"backoffice/internal/config"
	"backoffice/internal/model"
)

// Client implements model.Mailer on top of an SMTPS transport.
type Client struct {
	cfg config.SMTP
}

// NewClient creates a mail client from SMTP configuration.
func NewClient(cfg config.SMTP) *Client {
	return &Client{cfg: cfg}
}

// Send delivers a report message with its attachment. A new connection is
// dialed per message; report volume is a handful a day.
func (c *Client) Send(ctx context.Context, m model.ReportMail) error {
	msg := gomail.NewMsg()
	if err := msg.From(c.cfg.From); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(c.cfg.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	if c.cfg.Bcc != "" {
		if err := msg.Bcc(c.cfg.Bcc); err != nil {
			return fmt.Errorf("set bcc: %w", err)
		}
	}

	msg.Subject(m.Subject)
	msg.SetBodyString(gomail.TypeTextPlain, m.Body)
	if err := msg.AttachReader(m.AttachmentName, bytes.NewReader(m.Attachment)); err != nil {
		return fmt.Errorf("attach %s: %w", m.AttachmentName, err)
	}

	client, err := gomail.NewClient(c.cfg.Host,
		gomail.WithPort(c.cfg.Port),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(c.cfg.From),
		gomail.WithPassword(c.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}

	return nil
}
