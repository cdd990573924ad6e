package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"net/url"

	"go.uber.org/zap"
)

// Mailer dispatches account-lifecycle mail
type Mailer interface {
	SendPasswordResetEmail(ctx context.Context, toEmail, token string) error
}

var resetTemplate = template.Must(template.New("reset").Parse(`<h2>Password Reset Request</h2>
<p>You requested a password reset. Click the link below to reset your password:</p>
<p><a href="{{.Link}}">Reset Password</a></p>
<p>Or copy and paste this link: {{.Link}}</p>
<p>This link will expire in 1 hour.</p>
<p>If you didn't request this, please ignore this email.</p>`))

// SMTPMailer sends mail through a plain SMTP relay
type SMTPMailer struct {
	host       string
	port       string
	user       string
	password   string
	from       string
	appBaseURL string
}

// NewSMTPMailer creates a new SMTPMailer
func NewSMTPMailer(host, port, user, password, from, appBaseURL string) *SMTPMailer {
	return &SMTPMailer{
		host:       host,
		port:       port,
		user:       user,
		password:   password,
		from:       from,
		appBaseURL: appBaseURL,
	}
}

// SendPasswordResetEmail mails a reset link carrying the raw token
func (m *SMTPMailer) SendPasswordResetEmail(_ context.Context, toEmail, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.appBaseURL, url.QueryEscape(token))

	var body bytes.Buffer
	if err := resetTemplate.Execute(&body, struct{ Link string }{Link: link}); err != nil {
		return fmt.Errorf("render template: %w", err)
	}

	msg := bytes.Buffer{}
	fmt.Fprintf(&msg, "From: %s\r\n", m.from)
	fmt.Fprintf(&msg, "To: %s\r\n", toEmail)
	fmt.Fprintf(&msg, "Subject: Password Reset Request\r\n")
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.Write(body.Bytes())

	addr := m.host + ":" + m.port
	auth := smtp.PlainAuth("", m.user, m.password, m.host)
	if err := smtp.SendMail(addr, auth, m.from, []string{toEmail}, msg.Bytes()); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// LogMailer logs reset links instead of sending mail. Used in development
// when no SMTP relay is configured.
type LogMailer struct {
	logger     *zap.Logger
	appBaseURL string
}

// NewLogMailer creates a new LogMailer
func NewLogMailer(logger *zap.Logger, appBaseURL string) *LogMailer {
	return &LogMailer{logger: logger, appBaseURL: appBaseURL}
}

func (m *LogMailer) SendPasswordResetEmail(_ context.Context, toEmail, token string) error {
	link := fmt.Sprintf("%s/reset-password?token=%s", m.appBaseURL, url.QueryEscape(token))
	m.logger.Info("password reset requested",
		zap.String("email", toEmail),
		zap.String("link", link),
	)
	return nil
}
