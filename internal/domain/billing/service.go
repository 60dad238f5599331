package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/wellnest/wellnest/internal/platform/access"
	"github.com/wellnest/wellnest/internal/platform/httpx"
)

var validSubStatuses = map[string]bool{
	StatusTrialing: true,
	StatusActive:   true,
	StatusCanceled: true,
	StatusExpired:  true,
}

type Service struct {
	repo   Repository
	store  access.Store
	logger zerolog.Logger
}

func NewService(repo Repository, store access.Store, logger zerolog.Logger) *Service {
	return &Service{repo: repo, store: store, logger: logger}
}

// Current returns the caller's subscription, synthesizing a free-plan
// view for accounts the provider has never reported on.
func (s *Service) Current(ctx context.Context, subject string) (*Subscription, error) {
	accountID, err := s.store.AccountIDBySubject(ctx, subject)
	if err != nil {
		return nil, httpx.Internal(err)
	}
	if accountID == uuid.Nil {
		return nil, httpx.Forbidden("caller has no account")
	}
	sub, err := s.repo.GetByAccount(ctx, accountID)
	if errors.Is(err, pgx.ErrNoRows) {
		return &Subscription{AccountID: accountID, Status: StatusActive, Plan: PlanFree, Seats: planSeats[PlanFree]}, nil
	}
	if err != nil {
		return nil, httpx.Internal(err)
	}
	return sub, nil
}

// SeatLimit implements the account service's SeatSource. Canceled or
// expired subscriptions fall back to the free allowance, as do accounts
// with no subscription row and subscriptions past their period end.
func (s *Service) SeatLimit(ctx context.Context, accountID uuid.UUID) (int, error) {
	sub, err := s.repo.GetByAccount(ctx, accountID)
	if errors.Is(err, pgx.ErrNoRows) {
		return planSeats[PlanFree], nil
	}
	if err != nil {
		return 0, err
	}
	if sub.Status != StatusActive && sub.Status != StatusTrialing {
		return planSeats[PlanFree], nil
	}
	if sub.CurrentPeriodEnd != nil && sub.CurrentPeriodEnd.Before(time.Now().UTC()) {
		return planSeats[PlanFree], nil
	}
	if sub.Seats > 0 {
		return sub.Seats, nil
	}
	if n, ok := planSeats[sub.Plan]; ok {
		return n, nil
	}
	return planSeats[PlanFree], nil
}

// HandleWebhookEvent applies a provider notification. Unknown event
// types are acknowledged and logged rather than rejected, so the
// provider does not retry them forever.
func (s *Service) HandleWebhookEvent(ctx context.Context, ev *WebhookEvent) error {
	switch ev.Type {
	case "subscription.created", "subscription.updated", "subscription.canceled":
	default:
		s.logger.Warn().Str("type", ev.Type).Msg("ignoring unknown webhook event")
		return nil
	}

	if ev.AccountID == uuid.Nil {
		return httpx.Invalid("account_id is required", map[string]string{"account_id": "required"})
	}
	if !validSubStatuses[ev.Status] {
		return httpx.Invalid("invalid status: "+ev.Status, map[string]string{"status": "unknown"})
	}
	plan := ev.Plan
	if _, ok := planSeats[plan]; !ok {
		return httpx.Invalid("invalid plan: "+plan, map[string]string{"plan": "unknown"})
	}

	sub := &Subscription{
		AccountID:        ev.AccountID,
		Status:           ev.Status,
		Plan:             plan,
		Seats:            ev.Seats,
		CurrentPeriodEnd: ev.CurrentPeriodEnd,
	}
	if ev.Type == "subscription.canceled" {
		sub.Status = StatusCanceled
	}
	if err := s.repo.Upsert(ctx, sub); err != nil {
		return httpx.Internal(err)
	}
	s.logger.Info().
		Str("account_id", ev.AccountID.String()).
		Str("plan", plan).
		Str("status", sub.Status).
		Msg("subscription updated")
	return nil
}
