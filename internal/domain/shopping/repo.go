package shopping

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, item *ShoppingItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*ShoppingItem, error)
	Update(ctx context.Context, item *ShoppingItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByAccount(ctx context.Context, accountID uuid.UUID, neededOnly bool, limit, offset int) ([]*ShoppingItem, int, error)
	// InStockNames returns the names of items currently in stock, for
	// pantry matching.
	InStockNames(ctx context.Context, accountID uuid.UUID) ([]string, error)
}
