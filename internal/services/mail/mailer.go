package mail

import (
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/techsense/store_be/internal/config"
	"github.com/techsense/store_be/internal/metrics"
)

// Mailer is the email side of the notification gateway. Send never
// panics and never returns an error: transport failures are logged and
// reported as false so callers can decide whether to surface them.
type Mailer interface {
	Send(to, subject, body string) bool
}

// New selects the backend once at startup from MAIL_DRIVER.
func New(cfg config.Config) Mailer {
	switch cfg.MailDriver {
	case "smtp":
		return &SMTPMailer{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPassword,
			From:     cfg.FromEmail,
			Timeout:  10 * time.Second,
		}
	case "resend":
		return NewResendMailer(cfg.ResendAPIKey, cfg.FromEmail)
	default:
		return &ConsoleMailer{From: cfg.FromEmail}
	}
}

func report(ok bool) bool {
	if ok {
		metrics.EmailsSent.Inc()
	} else {
		metrics.EmailsFailed.Inc()
	}
	return ok
}

// ConsoleMailer echoes the message to the log. Local development only.
type ConsoleMailer struct {
	From string
}

func (m *ConsoleMailer) Send(to, subject, body string) bool {
	log.Info().
		Str("from", m.From).
		Str("to", to).
		Str("subject", subject).
		Msg("email (console backend)\n" + body)
	return report(true)
}

// SMTPMailer relays through a configured SMTP server. Timeout bounds
// the dial and the whole exchange, so a hung relay cannot stall the
// request that triggered the email.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	Timeout  time.Duration
}

func (m *SMTPMailer) Send(to, subject, body string) bool {
	if m.Host == "" {
		log.Error().Msg("smtp mailer: SMTP_HOST is not configured")
		return report(false)
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	if err := m.relay(to, msg.String()); err != nil {
		log.Error().Err(err).Str("to", to).Msg("smtp mailer: send failed")
		return report(false)
	}
	return report(true)
}

func (m *SMTPMailer) relay(to, msg string) error {
	timeout := m.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return err
	}
	if err := conn.SetDeadline(time.Now().Add(timeout)); err != nil {
		conn.Close()
		return err
	}

	client, err := smtp.NewClient(conn, m.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: m.Host}); err != nil {
			return err
		}
	}
	if m.Username != "" {
		if ok, _ := client.Extension("AUTH"); ok {
			auth := smtp.PlainAuth("", m.Username, m.Password, m.Host)
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	if err := client.Mail(m.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte(msg)); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}
