package driven

import (
	"context"

	"github.com/ericfisherdev/meetinghub/internal/domain/model"
)

// Mailer defines the driven port for outbound email. All sends are
// best-effort from the caller's perspective: failures are reported to the
// user as messages, never escalated to request failures.
type Mailer interface {
	// SendWelcome greets a newly verified account.
	SendWelcome(ctx context.Context, to, username string) error

	// SendVerification delivers the email-verification OTP.
	SendVerification(ctx context.Context, to, username, code string) error

	// SendPasswordReset delivers the password-reset OTP.
	SendPasswordReset(ctx context.Context, to, username, code string) error

	// SendIntegrationSuccess confirms that an integration was connected.
	// integration is the display name ("Trello", "Jira", "Slack").
	SendIntegrationSuccess(ctx context.Context, to, username, integration string) error

	// SendSummary delivers the meeting analysis to all recipients.
	SendSummary(ctx context.Context, recipients []string, analysis model.Analysis) error
}
