package account

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// =========== Account Repository ===========

type accountRepoPG struct{ pool *pgxpool.Pool }

func NewAccountRepoPG(pool *pgxpool.Pool) AccountRepository { return &accountRepoPG{pool: pool} }

const accountCols = `id, owner_subject, owner_email, name, created_at, updated_at`

func (r *accountRepoPG) scan(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(&a.ID, &a.OwnerSubject, &a.OwnerEmail, &a.Name, &a.CreatedAt, &a.UpdatedAt)
	return &a, err
}

func (r *accountRepoPG) Create(ctx context.Context, a *Account) error {
	a.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO accounts (id, owner_subject, owner_email, name)
		VALUES ($1,$2,$3,$4)
		RETURNING created_at, updated_at`,
		a.ID, a.OwnerSubject, a.OwnerEmail, a.Name).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (r *accountRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+accountCols+` FROM accounts WHERE id = $1`, id))
}

func (r *accountRepoPG) GetBySubject(ctx context.Context, subject string) (*Account, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+accountCols+` FROM accounts WHERE owner_subject = $1`, subject))
}

func (r *accountRepoPG) Update(ctx context.Context, a *Account) error {
	_, err := r.pool.Exec(ctx, `UPDATE accounts SET name=$2, owner_email=$3, updated_at=NOW() WHERE id = $1`,
		a.ID, a.Name, a.OwnerEmail)
	return err
}

// =========== Family Member Repository ===========

type memberRepoPG struct{ pool *pgxpool.Pool }

func NewFamilyMemberRepoPG(pool *pgxpool.Pool) FamilyMemberRepository { return &memberRepoPG{pool: pool} }

const memberCols = `id, account_id, member_subject, member_email, role, grants,
	status, invite_token, accepted_at, created_at, updated_at`

func (r *memberRepoPG) scan(row pgx.Row) (*FamilyMember, error) {
	var m FamilyMember
	err := row.Scan(&m.ID, &m.AccountID, &m.MemberSubject, &m.MemberEmail, &m.Role, &m.Grants,
		&m.Status, &m.InviteToken, &m.AcceptedAt, &m.CreatedAt, &m.UpdatedAt)
	return &m, err
}

func (r *memberRepoPG) Create(ctx context.Context, m *FamilyMember) error {
	m.ID = uuid.New()
	return r.pool.QueryRow(ctx, `
		INSERT INTO family_members (id, account_id, member_subject, member_email, role, grants, status, invite_token)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING created_at, updated_at`,
		m.ID, m.AccountID, m.MemberSubject, m.MemberEmail, m.Role, m.Grants, m.Status, m.InviteToken).
		Scan(&m.CreatedAt, &m.UpdatedAt)
}

func (r *memberRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*FamilyMember, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+memberCols+` FROM family_members WHERE id = $1`, id))
}

func (r *memberRepoPG) GetByInviteToken(ctx context.Context, token string) (*FamilyMember, error) {
	return r.scan(r.pool.QueryRow(ctx, `SELECT `+memberCols+` FROM family_members WHERE invite_token = $1`, token))
}

func (r *memberRepoPG) Update(ctx context.Context, m *FamilyMember) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE family_members SET member_subject=$2, role=$3, grants=$4, status=$5,
			accepted_at=$6, updated_at=NOW()
		WHERE id = $1`,
		m.ID, m.MemberSubject, m.Role, m.Grants, m.Status, m.AcceptedAt)
	return err
}

func (r *memberRepoPG) ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*FamilyMember, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM family_members WHERE account_id = $1 AND status != 'revoked'`, accountID).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+memberCols+` FROM family_members
		WHERE account_id = $1 AND status != 'revoked'
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, accountID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*FamilyMember
	for rows.Next() {
		m, err := r.scan(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, m)
	}
	return items, total, nil
}

func (r *memberRepoPG) CountSeats(ctx context.Context, accountID uuid.UUID) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM family_members
		WHERE account_id = $1 AND status IN ('invited','active')`, accountID).Scan(&n)
	return n, err
}

