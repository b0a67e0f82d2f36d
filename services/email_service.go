package services

import (
	"crypto/tls"
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/Uday261104/lms-v2/config"
)

// Mailer sends a single plain-text email. Failures propagate to the caller;
// there is no retry or silent suppression.
type Mailer interface {
	Send(to, subject, body string) error
}

// EmailService sends email via SMTP with STARTTLS.
type EmailService struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewEmailService creates an email service from the environment.
func NewEmailService(getEnv *config.EnviornmentVariable) *EmailService {
	return &EmailService{
		host:     getEnv.SMTP_HOST,
		port:     getEnv.SMTP_PORT,
		username: getEnv.SMTP_USERNAME,
		password: getEnv.SMTP_PASSWORD,
		from:     getEnv.SMTP_FROM,
	}
}

// IsConfigured checks if SMTP credentials are present
func (e *EmailService) IsConfigured() bool {
	return e.username != "" && e.password != ""
}

// Send delivers a plain-text email to a single recipient.
func (e *EmailService) Send(to, subject, body string) error {
	if !e.IsConfigured() {
		return fmt.Errorf("SMTP not configured")
	}

	headers := map[string]string{
		"From":         fmt.Sprintf("NextGen LMS <%s>", e.from),
		"To":           to,
		"Subject":      subject,
		"MIME-Version": "1.0",
		"Content-Type": "text/plain; charset=UTF-8",
	}

	var message strings.Builder
	for k, v := range headers {
		message.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	message.WriteString("\r\n")
	message.WriteString(body)

	addr := fmt.Sprintf("%s:%d", e.host, e.port)
	auth := smtp.PlainAuth("", e.username, e.password, e.host)

	tlsConfig := &tls.Config{
		InsecureSkipVerify: false,
		ServerName:         e.host,
	}

	conn, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	if err := conn.StartTLS(tlsConfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if err := conn.Auth(auth); err != nil {
		return fmt.Errorf("SMTP authentication failed: %w", err)
	}

	if err := conn.Mail(e.from); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}

	if err := conn.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := conn.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}

	if _, err = w.Write([]byte(message.String())); err != nil {
		return fmt.Errorf("failed to write email body: %w", err)
	}

	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	conn.Quit()

	log.Printf("Email sent successfully to: %s", to)
	return nil
}
