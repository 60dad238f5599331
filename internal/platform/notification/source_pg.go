package notification

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type sourcePG struct{ pool *pgxpool.Pool }

func NewSourcePG(pool *pgxpool.Pool) Source { return &sourcePG{pool: pool} }

func (s *sourcePG) UpcomingAppointments(ctx context.Context, from, to time.Time) ([]AppointmentReminder, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT a.id, p.name, acc.owner_email, a.title, a.start_time
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		JOIN accounts acc ON acc.id = p.account_id
		WHERE a.status = 'scheduled' AND a.reminded_at IS NULL
		  AND a.start_time >= $1 AND a.start_time < $2
		ORDER BY a.start_time ASC`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []AppointmentReminder
	for rows.Next() {
		var r AppointmentReminder
		if err := rows.Scan(&r.AppointmentID, &r.PatientName, &r.OwnerEmail, &r.Title, &r.StartTime); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	return items, nil
}

func (s *sourcePG) PendingInvites(ctx context.Context) ([]InviteNotice, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT m.id, m.member_email, m.invite_token, m.role, acc.name
		FROM family_members m
		JOIN accounts acc ON acc.id = m.account_id
		WHERE m.status = 'invited' AND m.notified_at IS NULL
		ORDER BY m.created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []InviteNotice
	for rows.Next() {
		var n InviteNotice
		if err := rows.Scan(&n.MemberID, &n.Email, &n.Token, &n.Role, &n.AccountName); err != nil {
			return nil, err
		}
		items = append(items, n)
	}
	return items, nil
}

func (s *sourcePG) MarkInviteNotified(ctx context.Context, memberID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE family_members SET notified_at = NOW() WHERE id = $1`, memberID)
	return err
}

func (s *sourcePG) MarkReminded(ctx context.Context, appointmentID string) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE appointments SET reminded_at = NOW() WHERE id = $1`, appointmentID)
	return err
}
