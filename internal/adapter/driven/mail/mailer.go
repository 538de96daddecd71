// Package mail implements the Mailer port over SMTP.
package mail

import (
	"context"
	"errors"
	"fmt"

	gomail "github.com/wneessen/go-mail"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
	"github.com/ericfisherdev/meetinghub/internal/domain/port/driven"
)

// ErrNotConfigured is returned when SMTP settings are absent.
var ErrNotConfigured = errors.New("smtp not configured")

// Compile-time interface satisfaction check.
var _ driven.Mailer = (*Mailer)(nil)

// Mailer sends HTML mail over SMTPS using the configured sender account.
type Mailer struct {
	host     string
	port     int
	username string
	password string
	sender   string
}

// NewMailer creates a Mailer. Any empty required setting yields
// ErrNotConfigured on every send rather than a construction failure, so the
// application can run without outbound email.
func NewMailer(host string, port int, username, password, sender string) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		username: username,
		password: password,
		sender:   sender,
	}
}

func (m *Mailer) configured() bool {
	return m.host != "" && m.username != "" && m.password != "" && m.sender != ""
}

// send delivers one HTML message to the given recipients.
func (m *Mailer) send(ctx context.Context, recipients []string, subject, htmlBody string) error {
	if !m.configured() {
		return ErrNotConfigured
	}
	if len(recipients) == 0 {
		return errors.New("no recipients")
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.sender); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := msg.To(recipients...); err != nil {
		return fmt.Errorf("set recipients: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextHTML, htmlBody)

	client, err := gomail.NewClient(m.host,
		gomail.WithPort(m.port),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.username),
		gomail.WithPassword(m.password),
	)
	if err != nil {
		return fmt.Errorf("create smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

// SendWelcome greets a newly verified account.
func (m *Mailer) SendWelcome(ctx context.Context, to, username string) error {
	return m.send(ctx, []string{to}, "Welcome to MeetingHub!", welcomeBody(username))
}

// SendVerification delivers the email-verification OTP.
func (m *Mailer) SendVerification(ctx context.Context, to, username, code string) error {
	return m.send(ctx, []string{to}, "Verify your MeetingHub email", otpBody(username,
		"Use this code to verify your email address. It expires in 30 minutes.", code))
}

// SendPasswordReset delivers the password-reset OTP.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, username, code string) error {
	return m.send(ctx, []string{to}, "MeetingHub password reset", otpBody(username,
		"Use this code to reset your password. It expires in 15 minutes.", code))
}

// SendIntegrationSuccess confirms that an integration was connected.
func (m *Mailer) SendIntegrationSuccess(ctx context.Context, to, username, integration string) error {
	subject := fmt.Sprintf("%s connected to MeetingHub", integration)
	return m.send(ctx, []string{to}, subject, integrationBody(username, integration))
}

// SendSummary delivers the meeting analysis to all recipients.
func (m *Mailer) SendSummary(ctx context.Context, recipients []string, analysis model.Analysis) error {
	return m.send(ctx, recipients, "Meeting Summary & Action Items", SummaryBody(analysis))
}
