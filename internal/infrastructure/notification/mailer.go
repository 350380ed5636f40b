package notification

import (
	"gopkg.in/gomail.v2"

	"github.com/thapelomagqazana/appointment-scheduling-backend/internal/core/ports"
)

// SMTPConfig captures the outbound mail transport settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	SSL      bool
}

// SMTPMailer implements ports.Mailer over SMTP using gomail.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(cfg SMTPConfig) *SMTPMailer {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.SSL = cfg.SSL
	return &SMTPMailer{dialer: d, from: cfg.From}
}

// Send delivers a single plain-text message. Each call dials a fresh
// connection.
func (m *SMTPMailer) Send(msg ports.EmailMessage) error {
	mail := gomail.NewMessage()
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", msg.To)
	mail.SetHeader("Subject", msg.Subject)
	mail.SetBody("text/plain", msg.Body)
	return m.dialer.DialAndSend(mail)
}
