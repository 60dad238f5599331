package shopping

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wellnest/wellnest/internal/platform/access"
	"github.com/wellnest/wellnest/internal/platform/httpx"
)

type Service struct {
	repo  Repository
	store access.Store
}

func NewService(repo Repository, store access.Store) *Service {
	return &Service{repo: repo, store: store}
}

// accountFor resolves the caller's own account. Shopping is account
// scoped, not patient scoped, so only the household owner operates on it.
func (s *Service) accountFor(ctx context.Context, subject string) (uuid.UUID, error) {
	accountID, err := s.store.AccountIDBySubject(ctx, subject)
	if err != nil {
		return uuid.Nil, httpx.Internal(err)
	}
	if accountID == uuid.Nil {
		return uuid.Nil, httpx.Forbidden("caller has no account")
	}
	return accountID, nil
}

func (s *Service) Create(ctx context.Context, subject string, item *ShoppingItem) error {
	accountID, err := s.accountFor(ctx, subject)
	if err != nil {
		return err
	}
	if strings.TrimSpace(item.Name) == "" {
		return httpx.Invalid("name is required", map[string]string{"name": "required"})
	}
	if item.Quantity < 0 {
		return httpx.Invalid("quantity must not be negative", map[string]string{"quantity": "must not be negative"})
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	item.AccountID = accountID
	if err := s.repo.Create(ctx, item); err != nil {
		return httpx.Internal(err)
	}
	return nil
}

func (s *Service) Update(ctx context.Context, subject string, id uuid.UUID, in *ShoppingItem) (*ShoppingItem, error) {
	accountID, err := s.accountFor(ctx, subject)
	if err != nil {
		return nil, err
	}
	item, err := s.itemInAccount(ctx, id, accountID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, httpx.Invalid("name is required", map[string]string{"name": "required"})
	}
	item.Name = in.Name
	item.Quantity = in.Quantity
	item.InStock = in.InStock
	item.Needed = in.Needed
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, httpx.Internal(err)
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, subject string, id uuid.UUID) error {
	accountID, err := s.accountFor(ctx, subject)
	if err != nil {
		return err
	}
	if _, err := s.itemInAccount(ctx, id, accountID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return httpx.Internal(err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, subject string, neededOnly bool, limit, offset int) ([]*ShoppingItem, int, error) {
	accountID, err := s.accountFor(ctx, subject)
	if err != nil {
		return nil, 0, err
	}
	items, total, err := s.repo.ListByAccount(ctx, accountID, neededOnly, limit, offset)
	if err != nil {
		return nil, 0, httpx.Internal(err)
	}
	return items, total, nil
}

// ConfirmPurchases marks the given items as purchased: in stock and no
// longer needed. Items are processed independently so a bad ID fails that
// item alone; the result reports both counts and per-item errors.
func (s *Service) ConfirmPurchases(ctx context.Context, subject string, ids []uuid.UUID) (*ConfirmResult, error) {
	accountID, err := s.accountFor(ctx, subject)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, httpx.Invalid("no items to confirm", map[string]string{"item_ids": "required"})
	}

	res := &ConfirmResult{Errors: map[string]string{}}
	for _, id := range ids {
		item, err := s.itemInAccount(ctx, id, accountID)
		if err != nil {
			res.Failed++
			var appErr *httpx.Error
			if errors.As(err, &appErr) {
				res.Errors[id.String()] = appErr.Message
			} else {
				res.Errors[id.String()] = "update failed"
			}
			continue
		}
		item.InStock = true
		item.Needed = false
		if err := s.repo.Update(ctx, item); err != nil {
			res.Failed++
			res.Errors[id.String()] = "update failed"
			continue
		}
		res.Confirmed++
	}
	if len(res.Errors) == 0 {
		res.Errors = nil
	}
	return res, nil
}

// InStockNames exposes the pantry view consumed by recipe matching.
func (s *Service) InStockNames(ctx context.Context, accountID uuid.UUID) ([]string, error) {
	return s.repo.InStockNames(ctx, accountID)
}

func (s *Service) itemInAccount(ctx context.Context, id, accountID uuid.UUID) (*ShoppingItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.NotFound("item not found")
	}
	if err != nil {
		return nil, httpx.Internal(err)
	}
	if item.AccountID != accountID {
		return nil, httpx.NotFound("item not found")
	}
	return item, nil
}
