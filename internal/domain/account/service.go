package account

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/wellnest/wellnest/internal/platform/access"
	"github.com/wellnest/wellnest/internal/platform/httpx"
)

// SeatSource answers how many family-member seats an account's plan
// allows. Implemented by the billing service.
type SeatSource interface {
	SeatLimit(ctx context.Context, accountID uuid.UUID) (int, error)
}

type Service struct {
	accounts AccountRepository
	members  FamilyMemberRepository
	seats    SeatSource
}

func NewService(accounts AccountRepository, members FamilyMemberRepository, seats SeatSource) *Service {
	return &Service{accounts: accounts, members: members, seats: seats}
}

var validRoles = map[access.Role]bool{
	access.RoleFamily:    true,
	access.RoleCaregiver: true,
}

// EnsureAccount returns the caller's account, creating it on first
// contact. Registration is implicit: the first authenticated request
// establishes the account.
func (s *Service) EnsureAccount(ctx context.Context, subject, email, name string) (*Account, error) {
	a, err := s.accounts.GetBySubject(ctx, subject)
	if err == nil {
		return a, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.Internal(err)
	}
	a = &Account{OwnerSubject: subject, OwnerEmail: strings.ToLower(strings.TrimSpace(email)), Name: name}
	if err := s.accounts.Create(ctx, a); err != nil {
		return nil, httpx.Internal(err)
	}
	return a, nil
}

func (s *Service) GetBySubject(ctx context.Context, subject string) (*Account, error) {
	a, err := s.accounts.GetBySubject(ctx, subject)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.NotFound("account not found")
	}
	if err != nil {
		return nil, httpx.Internal(err)
	}
	return a, nil
}

func (s *Service) UpdateName(ctx context.Context, subject, name string) (*Account, error) {
	if strings.TrimSpace(name) == "" {
		return nil, httpx.Invalid("name is required", map[string]string{"name": "required"})
	}
	a, err := s.GetBySubject(ctx, subject)
	if err != nil {
		return nil, err
	}
	a.Name = name
	if err := s.accounts.Update(ctx, a); err != nil {
		return nil, httpx.Internal(err)
	}
	return a, nil
}

// InviteMember creates an invited edge on the caller's account. The role
// and every explicit grant must be valid, and the account must have a
// free seat under its subscription plan.
func (s *Service) InviteMember(ctx context.Context, ownerSubject, email string, role access.Role, grants []access.Capability) (*FamilyMember, error) {
	owner, err := s.GetBySubject(ctx, ownerSubject)
	if err != nil {
		return nil, err
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, httpx.Invalid("valid email is required", map[string]string{"email": "invalid"})
	}
	if !validRoles[role] {
		return nil, httpx.Invalid("invalid role: "+string(role), map[string]string{"role": "must be family or caregiver"})
	}
	for _, g := range grants {
		if !access.ValidCapability(g) {
			return nil, httpx.Invalid("unknown capability: "+string(g), map[string]string{"grants": "unknown capability"})
		}
	}

	limit, err := s.seats.SeatLimit(ctx, owner.ID)
	if err != nil {
		return nil, httpx.Internal(err)
	}
	used, err := s.members.CountSeats(ctx, owner.ID)
	if err != nil {
		return nil, httpx.Internal(err)
	}
	if used >= limit {
		return nil, httpx.Forbidden("family member seat limit reached for current plan")
	}

	token, err := newInviteToken()
	if err != nil {
		return nil, httpx.Internal(err)
	}
	m := &FamilyMember{
		AccountID:   owner.ID,
		MemberEmail: email,
		Role:        role,
		Grants:      grants,
		Status:      StatusInvited,
		InviteToken: token,
	}
	if err := s.members.Create(ctx, m); err != nil {
		return nil, httpx.Internal(err)
	}
	return m, nil
}

// AcceptInvite binds the accepting identity to the invited edge and
// activates it. Accepting an already accepted or revoked invite fails.
func (s *Service) AcceptInvite(ctx context.Context, token, subject string) (*FamilyMember, error) {
	if token == "" {
		return nil, httpx.Invalid("invite token is required", map[string]string{"token": "required"})
	}
	m, err := s.members.GetByInviteToken(ctx, token)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.NotFound("invite not found")
	}
	if err != nil {
		return nil, httpx.Internal(err)
	}
	if m.Status != StatusInvited {
		return nil, httpx.Duplicate("invite already " + m.Status)
	}

	now := time.Now().UTC()
	m.MemberSubject = subject
	m.Status = StatusActive
	m.AcceptedAt = &now
	if err := s.members.Update(ctx, m); err != nil {
		return nil, httpx.Internal(err)
	}
	return m, nil
}

// UpdateMemberGrants replaces the per-edge grant set. Only the owning
// account may modify its edges.
func (s *Service) UpdateMemberGrants(ctx context.Context, ownerSubject string, memberID uuid.UUID, role access.Role, grants []access.Capability) (*FamilyMember, error) {
	owner, err := s.GetBySubject(ctx, ownerSubject)
	if err != nil {
		return nil, err
	}
	m, err := s.memberInAccount(ctx, memberID, owner.ID)
	if err != nil {
		return nil, err
	}
	if role != "" {
		if !validRoles[role] {
			return nil, httpx.Invalid("invalid role: "+string(role), map[string]string{"role": "must be family or caregiver"})
		}
		m.Role = role
	}
	for _, g := range grants {
		if !access.ValidCapability(g) {
			return nil, httpx.Invalid("unknown capability: "+string(g), map[string]string{"grants": "unknown capability"})
		}
	}
	m.Grants = grants
	if err := s.members.Update(ctx, m); err != nil {
		return nil, httpx.Internal(err)
	}
	return m, nil
}

// RevokeMember deactivates the edge. Revocation takes effect on the next
// access resolution; there is no grace period.
func (s *Service) RevokeMember(ctx context.Context, ownerSubject string, memberID uuid.UUID) error {
	owner, err := s.GetBySubject(ctx, ownerSubject)
	if err != nil {
		return err
	}
	m, err := s.memberInAccount(ctx, memberID, owner.ID)
	if err != nil {
		return err
	}
	if m.Status == StatusRevoked {
		return nil
	}
	m.Status = StatusRevoked
	if err := s.members.Update(ctx, m); err != nil {
		return httpx.Internal(err)
	}
	return nil
}

func (s *Service) ListMembers(ctx context.Context, ownerSubject string, limit, offset int) ([]*FamilyMember, int, error) {
	owner, err := s.GetBySubject(ctx, ownerSubject)
	if err != nil {
		return nil, 0, err
	}
	items, total, err := s.members.ListByAccount(ctx, owner.ID, limit, offset)
	if err != nil {
		return nil, 0, httpx.Internal(err)
	}
	return items, total, nil
}

func (s *Service) memberInAccount(ctx context.Context, memberID, accountID uuid.UUID) (*FamilyMember, error) {
	m, err := s.members.GetByID(ctx, memberID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, httpx.NotFound("family member not found")
	}
	if err != nil {
		return nil, httpx.Internal(err)
	}
	if m.AccountID != accountID {
		return nil, httpx.Forbidden("family member belongs to another account")
	}
	return m, nil
}

func newInviteToken() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
