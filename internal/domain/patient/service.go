package patient

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wellnest/wellnest/internal/platform/access"
	"github.com/wellnest/wellnest/internal/platform/httpx"
)

var validSpecies = map[string]bool{
	"human": true, "dog": true, "cat": true, "other": true,
}

type Service struct {
	repo     Repository
	resolver *access.Resolver
	store    access.Store
}

func NewService(repo Repository, resolver *access.Resolver, store access.Store) *Service {
	return &Service{repo: repo, resolver: resolver, store: store}
}

// Create adds a patient to the caller's own account. New patients always
// land in the account the caller owns, never in a household the caller
// merely has an edge into.
func (s *Service) Create(ctx context.Context, subject string, p *Patient) error {
	accountID, err := s.store.AccountIDBySubject(ctx, subject)
	if err != nil {
		return httpx.Internal(err)
	}
	if accountID == uuid.Nil {
		return httpx.Forbidden("caller has no account")
	}
	if err := validate(p); err != nil {
		return err
	}
	p.AccountID = accountID
	if err := s.repo.Create(ctx, p); err != nil {
		return httpx.Internal(err)
	}
	return nil
}

func (s *Service) Get(ctx context.Context, subject string, id uuid.UUID) (*Patient, error) {
	if _, err := s.resolver.Resolve(ctx, subject, id, access.CapViewVitals); err != nil {
		return nil, err
	}
	p, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.NotFound("patient not found")
	}
	if err != nil {
		return nil, httpx.Internal(err)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, subject string, id uuid.UUID, p *Patient) (*Patient, error) {
	if _, err := s.resolver.Resolve(ctx, subject, id, access.CapManagePatients); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.NotFound("patient not found")
	}
	if err != nil {
		return nil, httpx.Internal(err)
	}
	if err := validate(p); err != nil {
		return nil, err
	}
	existing.Name = p.Name
	existing.Species = p.Species
	existing.BirthDate = p.BirthDate
	existing.Notes = p.Notes
	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, httpx.Internal(err)
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, subject string, id uuid.UUID) error {
	if _, err := s.resolver.Resolve(ctx, subject, id, access.CapManagePatients); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return httpx.Internal(err)
	}
	return nil
}

// List returns every patient the caller can see: those under the caller's
// own account plus those under accounts the caller holds active edges
// into.
func (s *Service) List(ctx context.Context, subject string, limit, offset int) ([]*Patient, int, error) {
	var accountIDs []uuid.UUID

	own, err := s.store.AccountIDBySubject(ctx, subject)
	if err != nil {
		return nil, 0, httpx.Internal(err)
	}
	if own != uuid.Nil {
		accountIDs = append(accountIDs, own)
	}
	edges, err := s.store.ActiveEdgesForSubject(ctx, subject)
	if err != nil {
		return nil, 0, httpx.Internal(err)
	}
	for _, e := range edges {
		accountIDs = append(accountIDs, e.OwnerAccountID)
	}
	if len(accountIDs) == 0 {
		return nil, 0, nil
	}

	items, total, err := s.repo.ListByAccounts(ctx, accountIDs, limit, offset)
	if err != nil {
		return nil, 0, httpx.Internal(err)
	}
	return items, total, nil
}

func validate(p *Patient) error {
	fields := map[string]string{}
	if strings.TrimSpace(p.Name) == "" {
		fields["name"] = "required"
	}
	if !validSpecies[p.Species] {
		fields["species"] = "must be one of human, dog, cat, other"
	}
	if len(fields) > 0 {
		return httpx.Invalid("invalid patient", fields)
	}
	return nil
}
