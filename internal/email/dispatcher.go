// Package email renders and sends transactional messages over SMTP.
package email

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Message is a rendered email ready for dispatch.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Dispatcher sends rendered messages. Implementations must return an error on
// transport failure; callers decide whether the failure is fatal.
type Dispatcher interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig holds mail transport settings.
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

type smtpDispatcher struct {
	dialer *gomail.Dialer
	from   string
	log    *zap.SugaredLogger
}

// NewSMTPDispatcher creates a Dispatcher backed by an SMTP server.
func NewSMTPDispatcher(cfg SMTPConfig, log *zap.SugaredLogger) Dispatcher {
	return &smtpDispatcher{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   fmt.Sprintf("%s <%s>", cfg.FromName, cfg.FromEmail),
		log:    log,
	}
}

func (d *smtpDispatcher) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", d.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := d.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	d.log.Infow("email sent", "to", msg.To, "subject", msg.Subject)
	return nil
}
