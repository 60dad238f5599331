package recipes

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wellnest/wellnest/internal/platform/access"
	"github.com/wellnest/wellnest/internal/platform/httpx"
)

// ProductSource is the pantry view used for matching. Implemented by the
// shopping service.
type ProductSource interface {
	InStockNames(ctx context.Context, accountID uuid.UUID) ([]string, error)
}

type Service struct {
	repo     Repository
	store    access.Store
	products ProductSource
}

func NewService(repo Repository, store access.Store, products ProductSource) *Service {
	return &Service{repo: repo, store: store, products: products}
}

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

func (s *Service) Create(ctx context.Context, subject string, r *Recipe) error {
	accountID, err := s.accountFor(ctx, subject)
	if err != nil {
		return err
	}
	if err := validate(r); err != nil {
		return err
	}
	r.AccountID = accountID
	if err := s.repo.Create(ctx, r); err != nil {
		return httpx.Internal(err)
	}
	return nil
}

func (s *Service) Update(ctx context.Context, subject string, id uuid.UUID, in *Recipe) (*Recipe, error) {
	accountID, err := s.accountFor(ctx, subject)
	if err != nil {
		return nil, err
	}
	r, err := s.recipeInAccount(ctx, id, accountID)
	if err != nil {
		return nil, err
	}
	if err := validate(in); err != nil {
		return nil, err
	}
	r.Name = in.Name
	r.Ingredients = in.Ingredients
	r.Instructions = in.Instructions
	r.Calories = in.Calories
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, httpx.Internal(err)
	}
	return r, nil
}

func (s *Service) Delete(ctx context.Context, subject string, id uuid.UUID) error {
	accountID, err := s.accountFor(ctx, subject)
	if err != nil {
		return err
	}
	if _, err := s.recipeInAccount(ctx, id, accountID); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return httpx.Internal(err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, subject string, limit, offset int) ([]*Recipe, int, error) {
	accountID, err := s.accountFor(ctx, subject)
	if err != nil {
		return nil, 0, err
	}
	items, total, err := s.repo.ListByAccount(ctx, accountID, limit, offset)
	if err != nil {
		return nil, 0, httpx.Internal(err)
	}
	return items, total, nil
}

// Match ranks the account's recipes against the in-stock pantry, best
// score first. An ingredient counts as missing unless some product is a
// containment match for it.
func (s *Service) Match(ctx context.Context, subject string, limit int) ([]*MatchResult, error) {
	accountID, err := s.accountFor(ctx, subject)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	all, _, err := s.repo.ListByAccount(ctx, accountID, 500, 0)
	if err != nil {
		return nil, httpx.Internal(err)
	}
	pantry, err := s.products.InStockNames(ctx, accountID)
	if err != nil {
		return nil, httpx.Internal(err)
	}

	results := make([]*MatchResult, 0, len(all))
	for _, r := range all {
		res := &MatchResult{Recipe: r, MissingIngredients: []string{}}
		for _, ing := range r.Ingredients {
			best := bestMatch(ing, pantry)
			res.Score += best
			if best < substringScore {
				res.MissingIngredients = append(res.MissingIngredients, ing)
			}
		}
		results = append(results, res)
	}
	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func (s *Service) recipeInAccount(ctx context.Context, id, accountID uuid.UUID) (*Recipe, error) {
	r, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.NotFound("recipe not found")
	}
	if err != nil {
		return nil, httpx.Internal(err)
	}
	if r.AccountID != accountID {
		return nil, httpx.NotFound("recipe not found")
	}
	return r, nil
}

func validate(r *Recipe) error {
	fields := map[string]string{}
	if strings.TrimSpace(r.Name) == "" {
		fields["name"] = "required"
	}
	if len(r.Ingredients) == 0 {
		fields["ingredients"] = "at least one required"
	}
	if r.Calories != nil && *r.Calories < 0 {
		fields["calories"] = "must not be negative"
	}
	if len(fields) > 0 {
		return httpx.Invalid("invalid recipe", fields)
	}
	return nil
}
