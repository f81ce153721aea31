package mail

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/seid21/topia-estate-be/internal/config"
)

// Mailer sends transactional email. Outside production it logs messages
// instead of talking to an SMTP server, so local setups need no credentials.
type Mailer struct {
	cfg *config.Config
}

// New creates a mailer with the given config.
func New(cfg *config.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendPasswordReset emails a reset link built from the app base URL.
func (m *Mailer) SendPasswordReset(email, token string) error {
	link := fmt.Sprintf("%s/reset-password/%s", m.cfg.AppBaseURL, token)

	subject := "Password Reset"
	body := fmt.Sprintf(
		"Click the link below to reset your password:\n\n%s\n\nThis link expires in one hour.",
		link,
	)

	return m.send(email, subject, body)
}

// SendContact forwards a contact-form submission to the configured inbox.
func (m *Mailer) SendContact(name, fromEmail, message string) error {
	subject := fmt.Sprintf("Contact Form Message from %s", name)
	body := fmt.Sprintf("From: %s <%s>\n\n%s", name, fromEmail, message)

	return m.send(m.cfg.ContactInbox, subject, body)
}

func (m *Mailer) send(to, subject, body string) error {
	if !m.cfg.IsProduction() {
		log.Info().Str("to", to).Str("subject", subject).Msg("Dev mode: mail logged instead of sent")
		log.Debug().Str("body", body).Msg("Mail body")
		return nil
	}

	msg := buildEmail(m.cfg.SMTPFrom, to, subject, body)
	addr := fmt.Sprintf("%s:%s", m.cfg.SMTPHost, m.cfg.SMTPPort)
	auth := smtp.PlainAuth("", m.cfg.SMTPUser, m.cfg.SMTPPass, m.cfg.SMTPHost)

	if err := smtp.SendMail(addr, auth, m.cfg.SMTPFrom, []string{to}, msg); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}

func buildEmail(from, to, subject, body string) []byte {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("From: %s\r\n", from))
	sb.WriteString(fmt.Sprintf("To: %s\r\n", to))
	sb.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	sb.WriteString("MIME-Version: 1.0\r\n")
	sb.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	sb.WriteString("\r\n")
	sb.WriteString(body)
	return []byte(sb.String())
}
