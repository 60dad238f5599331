package access

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type storePG struct {
	pool *pgxpool.Pool
}

// NewStorePG returns a Store backed by the accounts, patients, and
// family_members tables.
func NewStorePG(pool *pgxpool.Pool) Store {
	return &storePG{pool: pool}
}

func (s *storePG) AccountIDBySubject(ctx context.Context, subject string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.pool.QueryRow(ctx, `SELECT id FROM accounts WHERE owner_subject = $1`, subject).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, err
	}
	return id, nil
}

func (s *storePG) PatientInAccount(ctx context.Context, patientID, accountID uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM patients WHERE id = $1 AND account_id = $2)`,
		patientID, accountID).Scan(&exists)
	return exists, err
}

func (s *storePG) ActiveEdgesForSubject(ctx context.Context, subject string) ([]Edge, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, account_id, member_subject, role, grants
		FROM family_members
		WHERE member_subject = $1 AND status = 'active'
		ORDER BY created_at`, subject)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []Edge
	for rows.Next() {
		var e Edge
		var role string
		var grants []string
		if err := rows.Scan(&e.ID, &e.OwnerAccountID, &e.MemberSubject, &role, &grants); err != nil {
			return nil, err
		}
		e.Role = Role(role)
		e.Grants = make([]Capability, len(grants))
		for i, g := range grants {
			e.Grants[i] = Capability(g)
		}
		edges = append(edges, e)
	}
	return edges, rows.Err()
}
