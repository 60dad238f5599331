package billing

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

const subCols = `id, account_id, status, plan, seats, current_period_end, created_at, updated_at`

func (r *repoPG) scan(row pgx.Row) (*Subscription, error) {
	var s Subscription
	err := row.Scan(&s.ID, &s.AccountID, &s.Status, &s.Plan, &s.Seats, &s.CurrentPeriodEnd,
		&s.CreatedAt, &s.UpdatedAt)
	return &s, err
}

func (r *repoPG) Upsert(ctx context.Context, s *Subscription) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return r.pool.QueryRow(ctx, `
		INSERT INTO subscriptions (id, account_id, status, plan, seats, current_period_end)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (account_id) DO UPDATE
			SET status = EXCLUDED.status,
			    plan = EXCLUDED.plan,
			    seats = EXCLUDED.seats,
			    current_period_end = EXCLUDED.current_period_end,
			    updated_at = NOW()
		RETURNING id, created_at, updated_at`,
		s.ID, s.AccountID, s.Status, s.Plan, s.Seats, s.CurrentPeriodEnd).
		Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
}

func (r *repoPG) GetByAccount(ctx context.Context, accountID uuid.UUID) (*Subscription, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+subCols+` FROM subscriptions WHERE account_id = $1`, accountID))
}
