// Package mailer dispatches transactional mail over SMTP.
package mailer

import (
	"github.com/wneessen/go-mail"

	"github.com/accsvc-dev/accsvc/internal/config"
	"github.com/accsvc-dev/accsvc/internal/logger"
)

type Mailer struct {
	client     *mail.Client
	sender     string
	senderName string
}

func New(cfg *config.Smtp) (*Mailer, error) {
	options := []mail.Option{
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	}
	if cfg.Port != 0 {
		options = append(options, mail.WithPort(cfg.Port))
	}
	if cfg.SSL {
		options = append(options, mail.WithSSLPort(true))
	}

	client, err := mail.NewClient(cfg.Host, options...)
	if err != nil {
		return nil, err
	}

	return &Mailer{client: client, sender: cfg.Sender, senderName: cfg.SenderName}, nil
}

// Send delivers a single HTML message. Failures are surfaced once, never
// retried here.
func (m *Mailer) Send(recipientEmail, subject, htmlBody string) error {
	msg := mail.NewMsg()
	if err := msg.FromFormat(m.senderName, m.sender); err != nil {
		return err
	}
	if err := msg.To(recipientEmail); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if err := m.client.DialAndSend(msg); err != nil {
		logger.Log.Error("failed to send mail", "recipient", recipientEmail, "error", err)
		return err
	}
	return nil
}
