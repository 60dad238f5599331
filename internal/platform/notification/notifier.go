package notification

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// reminderWindow is how far ahead the notifier looks for appointments.
const reminderWindow = 24 * time.Hour

// AppointmentReminder is everything needed to email an owner about an
// upcoming visit.
type AppointmentReminder struct {
	AppointmentID string
	PatientName   string
	OwnerEmail    string
	Title         string
	StartTime     time.Time
}

// InviteNotice is a pending family-member invite awaiting its email.
type InviteNotice struct {
	MemberID    string
	Email       string
	Token       string
	Role        string
	AccountName string
}

// Source provides the pending work for one notifier run.
type Source interface {
	UpcomingAppointments(ctx context.Context, from, to time.Time) ([]AppointmentReminder, error)
	PendingInvites(ctx context.Context) ([]InviteNotice, error)
	// MarkInviteNotified prevents the invite from being emailed again on
	// the next run.
	MarkInviteNotified(ctx context.Context, memberID string) error
	// MarkReminded prevents the appointment from being emailed again when
	// the scheduler fires more often than the reminder window.
	MarkReminded(ctx context.Context, appointmentID string) error
}

// Result counts one run's outcomes. Failures are per item; a failed send
// never aborts the run.
type Result struct {
	RemindersSent int `json:"reminders_sent"`
	InvitesSent   int `json:"invites_sent"`
	Failed        int `json:"failed"`
}

type Notifier struct {
	source Source
	mailer MailSender
	logger zerolog.Logger
}

func NewNotifier(source Source, mailer MailSender, logger zerolog.Logger) *Notifier {
	return &Notifier{source: source, mailer: mailer, logger: logger}
}

// Run processes one notification sweep: appointment reminders for the
// next 24 hours and emails for invites not yet notified.
func (n *Notifier) Run(ctx context.Context) (*Result, error) {
	res := &Result{}
	now := time.Now().UTC()

	reminders, err := n.source.UpcomingAppointments(ctx, now, now.Add(reminderWindow))
	if err != nil {
		return nil, err
	}
	for _, r := range reminders {
		if r.OwnerEmail == "" {
			continue
		}
		if err := n.mailer.SendAppointmentReminder(ctx, r); err != nil {
			n.logger.Error().Err(err).Str("appointment_id", r.AppointmentID).Msg("reminder send failed")
			res.Failed++
			continue
		}
		if err := n.source.MarkReminded(ctx, r.AppointmentID); err != nil {
			n.logger.Error().Err(err).Str("appointment_id", r.AppointmentID).Msg("reminder mark failed")
			res.Failed++
			continue
		}
		res.RemindersSent++
	}

	invites, err := n.source.PendingInvites(ctx)
	if err != nil {
		return nil, err
	}
	for _, inv := range invites {
		if err := n.mailer.SendInviteEmail(ctx, inv); err != nil {
			n.logger.Error().Err(err).Str("member_id", inv.MemberID).Msg("invite send failed")
			res.Failed++
			continue
		}
		if err := n.source.MarkInviteNotified(ctx, inv.MemberID); err != nil {
			n.logger.Error().Err(err).Str("member_id", inv.MemberID).Msg("invite mark failed")
			res.Failed++
			continue
		}
		res.InvitesSent++
	}

	n.logger.Info().
		Int("reminders", res.RemindersSent).
		Int("invites", res.InvitesSent).
		Int("failed", res.Failed).
		Msg("notification run complete")
	return res, nil
}
