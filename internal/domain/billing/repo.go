package billing

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Upsert(ctx context.Context, s *Subscription) error
	GetByAccount(ctx context.Context, accountID uuid.UUID) (*Subscription, error)
}
