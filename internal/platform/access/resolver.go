// Package access implements patient-scoped access resolution: given a
// verified caller identity and a target patient, it determines the
// caller's role relative to that patient and the account under which the
// patient's records actually live. Nearly every medical route runs
// through Resolve before touching data.
package access

import (
	"context"

	"github.com/google/uuid"

	"github.com/wellnest/wellnest/internal/platform/httpx"
)

// Edge is a family-member link granting a secondary identity
// capability-scoped access to an owning account's patients.
type Edge struct {
	ID             uuid.UUID
	OwnerAccountID uuid.UUID
	MemberSubject  string
	Role           Role
	Grants         []Capability
}

// Store is the read-only view of accounts, patients, and family edges the
// resolver traverses.
type Store interface {
	// AccountIDBySubject returns the account owned by the subject, or
	// uuid.Nil with a nil error when the subject owns no account.
	AccountIDBySubject(ctx context.Context, subject string) (uuid.UUID, error)
	// PatientInAccount reports whether the patient document lives under
	// the given account.
	PatientInAccount(ctx context.Context, patientID, accountID uuid.UUID) (bool, error)
	// ActiveEdgesForSubject returns the subject's active family-member
	// edges. A caller may hold edges into multiple households.
	ActiveEdgesForSubject(ctx context.Context, subject string) ([]Edge, error)
}

// Grant is a successful resolution: the caller may act on the patient, and
// the patient's documents live under OwnerAccountID (which differs from the
// caller's own account when the caller is a family member or caregiver).
type Grant struct {
	CallerSubject  string
	OwnerAccountID uuid.UUID
	Role           Role
}

type Resolver struct {
	store Store
}

func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve determines whether the caller may act on the patient for the
// named capability. Resolution order: the caller's own account first, then
// family-member edges. An edge only matches when its owning account
// actually contains the patient — never merely the first edge found.
// Fails closed with 403; existence is not leaked to unauthorized callers.
func (r *Resolver) Resolve(ctx context.Context, subject string, patientID uuid.UUID, cap Capability) (*Grant, error) {
	if subject == "" {
		return nil, httpx.Unauthorized("missing caller identity")
	}

	ownAccount, err := r.store.AccountIDBySubject(ctx, subject)
	if err != nil {
		return nil, httpx.Internal(err)
	}
	if ownAccount != uuid.Nil {
		in, err := r.store.PatientInAccount(ctx, patientID, ownAccount)
		if err != nil {
			return nil, httpx.Internal(err)
		}
		if in {
			return &Grant{CallerSubject: subject, OwnerAccountID: ownAccount, Role: RoleOwner}, nil
		}
	}

	edges, err := r.store.ActiveEdgesForSubject(ctx, subject)
	if err != nil {
		return nil, httpx.Internal(err)
	}
	for _, e := range edges {
		in, err := r.store.PatientInAccount(ctx, patientID, e.OwnerAccountID)
		if err != nil {
			return nil, httpx.Internal(err)
		}
		if !in {
			continue
		}
		if !Allowed(e.Role, e.Grants, cap) {
			return nil, httpx.Forbidden("missing capability: " + string(cap))
		}
		return &Grant{CallerSubject: subject, OwnerAccountID: e.OwnerAccountID, Role: e.Role}, nil
	}

	return nil, httpx.Forbidden("no access to this patient")
}
