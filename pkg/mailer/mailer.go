package mailer

import (
	"fmt"
	"net/smtp"

	"go.uber.org/zap"

	"github.com/showroomhq/showroom/config"
)

// Mailer sends plain-text notification mail, currently only the insurance
// expiry reminder.
type Mailer struct {
	host     string
	port     string
	from     string
	password string
	log      *zap.Logger
}

func NewMailer(cfg *config.Config, log *zap.Logger) *Mailer {
	return &Mailer{
		host:     cfg.SMTP_HOST,
		port:     cfg.SMTP_PORT,
		from:     cfg.SMTP_FROM,
		password: cfg.SMTP_PASSWORD,
		log:      log,
	}
}

func (m *Mailer) Send(to, subject, body string) error {
	if m.from == "" || m.password == "" {
		return fmt.Errorf("mailer is not configured: SMTP_FROM and SMTP_PASSWORD are required")
	}

	msg := []byte("From: " + m.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" +
		body + "\r\n")

	auth := smtp.PlainAuth("", m.from, m.password, m.host)
	addr := m.host + ":" + m.port

	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg); err != nil {
		m.log.Error("Failed to send mail",
			zap.String("to", to),
			zap.String("subject", subject),
			zap.Error(err),
		)
		return fmt.Errorf("failed to send mail: %w", err)
	}

	m.log.Info("Mail sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

// SendInsuranceReminder mails the standard insurance expiry notice.
func (m *Mailer) SendInsuranceReminder(to string) error {
	return m.Send(to, "Insurance Expiry Reminder", "Your vehicle insurance will expire soon.")
}
