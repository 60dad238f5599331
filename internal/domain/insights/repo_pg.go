package insights

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) RecordEvent(ctx context.Context, e *ActivityEvent) error {
	e.ID = uuid.New()
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO activity_events (id, subject, event_type, occurred_at)
		VALUES ($1,$2,$3,$4)`,
		e.ID, e.Subject, e.EventType, e.OccurredAt)
	return err
}

func (r *repoPG) EventsSince(ctx context.Context, subject string, since time.Time) ([]*ActivityEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, subject, event_type, occurred_at FROM activity_events
		WHERE subject = $1 AND occurred_at >= $2
		ORDER BY occurred_at DESC`, subject, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []*ActivityEvent
	for rows.Next() {
		var e ActivityEvent
		if err := rows.Scan(&e.ID, &e.Subject, &e.EventType, &e.OccurredAt); err != nil {
			return nil, err
		}
		items = append(items, &e)
	}
	return items, nil
}

func (r *repoPG) LastAnalyzedAt(ctx context.Context, subject string) (time.Time, error) {
	var at time.Time
	err := r.pool.QueryRow(ctx,
		`SELECT analyzed_at FROM analysis_cooldowns WHERE subject = $1`, subject).Scan(&at)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, nil
	}
	return at, err
}

func (r *repoPG) MarkAnalyzed(ctx context.Context, subject string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO analysis_cooldowns (subject, analyzed_at)
		VALUES ($1,$2)
		ON CONFLICT (subject) DO UPDATE SET analyzed_at = EXCLUDED.analyzed_at`,
		subject, at)
	return err
}
