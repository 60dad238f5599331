// Package notification delivers appointment reminders and invite emails.
// The mailer sends through Amazon SES and degrades to a disabled no-op
// when no sender address is configured, so local development never needs
// AWS credentials.
package notification

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	"github.com/rs/zerolog"
)

// MailSender is what the notifier needs from a mailer.
type MailSender interface {
	SendAppointmentReminder(ctx context.Context, r AppointmentReminder) error
	SendInviteEmail(ctx context.Context, n InviteNotice) error
}

type Mailer struct {
	client     *sesv2.Client
	fromEmail  string
	fromName   string
	appBaseURL string
	enabled    bool
	logger     zerolog.Logger
}

// NewMailer builds an SES-backed mailer. An empty fromEmail yields a
// disabled mailer whose sends succeed without doing anything.
func NewMailer(ctx context.Context, region, fromEmail, fromName, appBaseURL string, logger zerolog.Logger) (*Mailer, error) {
	if fromEmail == "" {
		logger.Info().Msg("mailer disabled: no sender address configured")
		return &Mailer{enabled: false, logger: logger}, nil
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	logger.Info().Str("from", fromEmail).Str("region", region).Msg("mailer enabled")
	return &Mailer{
		client:     sesv2.NewFromConfig(cfg),
		fromEmail:  fromEmail,
		fromName:   fromName,
		appBaseURL: appBaseURL,
		enabled:    true,
		logger:     logger,
	}, nil
}

func (m *Mailer) Enabled() bool { return m.enabled }

func (m *Mailer) SendAppointmentReminder(ctx context.Context, r AppointmentReminder) error {
	if !m.enabled {
		m.logger.Debug().Str("to", r.OwnerEmail).Msg("mailer disabled, skipping reminder")
		return nil
	}
	subject := fmt.Sprintf("Reminder: %s for %s", r.Title, r.PatientName)
	text := fmt.Sprintf(
		"Hi,\n\n%s has an upcoming appointment: %s\nWhen: %s\n\nSee details: %s/appointments\n",
		r.PatientName, r.Title, r.StartTime.Format("Mon, 2 Jan 2006 15:04 MST"), m.appBaseURL)
	return m.send(ctx, r.OwnerEmail, subject, text)
}

func (m *Mailer) SendInviteEmail(ctx context.Context, n InviteNotice) error {
	if !m.enabled {
		m.logger.Debug().Str("to", n.Email).Msg("mailer disabled, skipping invite")
		return nil
	}
	subject := fmt.Sprintf("You've been invited to join %s", n.AccountName)
	text := fmt.Sprintf(
		"Hi,\n\nYou've been invited to join %s as a %s.\n\nAccept the invite: %s/invites/accept?token=%s\n",
		n.AccountName, n.Role, m.appBaseURL, n.Token)
	return m.send(ctx, n.Email, subject, text)
}

func (m *Mailer) send(ctx context.Context, to, subject, textBody string) error {
	from := m.fromEmail
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)
	}
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(from),
		Destination:      &types.Destination{ToAddresses: []string{to}},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject), Charset: aws.String("UTF-8")},
				Body: &types.Body{
					Text: &types.Content{Data: aws.String(textBody), Charset: aws.String("UTF-8")},
				},
			},
		},
	}
	if _, err := m.client.SendEmail(ctx, input); err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	m.logger.Info().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}
