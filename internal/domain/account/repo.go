package account

import (
	"context"

	"github.com/google/uuid"
)

type AccountRepository interface {
	Create(ctx context.Context, a *Account) error
	GetByID(ctx context.Context, id uuid.UUID) (*Account, error)
	GetBySubject(ctx context.Context, subject string) (*Account, error)
	Update(ctx context.Context, a *Account) error
}

type FamilyMemberRepository interface {
	Create(ctx context.Context, m *FamilyMember) error
	GetByID(ctx context.Context, id uuid.UUID) (*FamilyMember, error)
	GetByInviteToken(ctx context.Context, token string) (*FamilyMember, error)
	Update(ctx context.Context, m *FamilyMember) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, limit, offset int) ([]*FamilyMember, int, error)
	CountSeats(ctx context.Context, accountID uuid.UUID) (int, error)
}
